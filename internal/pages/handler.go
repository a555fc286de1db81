package pages

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/JaimeStill/bookshelf/pkg/handlers"
	"github.com/JaimeStill/bookshelf/pkg/routes"
)

// Handler provides HTTP endpoints for paginated document operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a pages handler. Uploads larger than maxUploadSize are rejected.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "pages"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the pages endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/books",
		Tags:        []string{"Pages"},
		Description: "Paginated book storage",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/pages", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "GET", Pattern: "/{id}/pages", Handler: h.Info, OpenAPI: Spec.Info},
			{Method: "DELETE", Pattern: "/{id}/pages", Handler: h.Delete, OpenAPI: Spec.Delete},
			{Method: "GET", Pattern: "/{id}/pages/{page}", Handler: h.Page, OpenAPI: Spec.Page},
			{Method: "PUT", Pattern: "/{id}/pages/{page}", Handler: h.Replace, OpenAPI: Spec.Replace},
		},
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	name, data, err := h.readFile(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc, err := h.sys.Upload(r.Context(), id, name, data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc, err := h.sys.Info(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	ordinal, err := pageOrdinal(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	page, err := h.sys.Page(r.Context(), id, ordinal)
	if err != nil {
		h.respondError(w, err)
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(page.Data))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", page.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(page.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%d%s"`, page.Ordinal, page.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(page.Data)
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	ordinal, err := pageOrdinal(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	name, data, err := h.readFile(w, r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	doc, err := h.sys.ReplacePage(r.Context(), id, ordinal, name, data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := bookID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	handlers.RespondErrorKind(w, h.logger, MapHTTPStatus(err), Kind(err), err)
}

// readFile reads the multipart "file" field, enforcing the upload limit.
func (h *Handler) readFile(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, fmt.Errorf("%w: expected multipart/form-data", ErrInvalidRequest)
		}
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, ErrEmptyUpload
		}
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("%w: read file: %v", ErrInvalidRequest, err)
	}

	return header.Filename, data, nil
}

func bookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid book id %q", ErrInvalidRequest, r.PathValue("id"))
	}
	return id, nil
}

func pageOrdinal(r *http.Request) (int, error) {
	ordinal, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || ordinal < 1 {
		return 0, fmt.Errorf("%w: invalid page %q", ErrInvalidRequest, r.PathValue("page"))
	}
	return ordinal, nil
}
