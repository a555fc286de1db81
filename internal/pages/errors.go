package pages

import (
	"errors"
	"net/http"
)

// Domain errors for paginated document operations. Returned errors wrap one
// of these with a reason, so callers test with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedDocument = errors.New("malformed document")
	ErrFormatMismatch    = errors.New("format mismatch")
	ErrInvalidPageCount  = errors.New("invalid page count")
	ErrEmptyUpload       = errors.New("no file uploaded")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrAlreadyExists     = errors.New("document already has pages")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrStorage           = errors.New("storage failure")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrUnsupportedFormat, "UnsupportedFormat"},
	{ErrMalformedDocument, "MalformedDocument"},
	{ErrFormatMismatch, "FormatMismatch"},
	{ErrInvalidPageCount, "InvalidPageCount"},
	{ErrEmptyUpload, "EmptyUpload"},
	{ErrInvalidRequest, "InvalidRequest"},
	{ErrFileTooLarge, "FileTooLarge"},
	{ErrAlreadyExists, "AlreadyExists"},
	{ErrDocumentNotFound, "DocumentNotFound"},
	{ErrPageNotFound, "PageNotFound"},
}

// Kind returns the stable error kind for err. Errors outside the domain
// taxonomy report StorageError.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "StorageError"
}

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrMalformedDocument),
		errors.Is(err, ErrFormatMismatch),
		errors.Is(err, ErrInvalidPageCount),
		errors.Is(err, ErrEmptyUpload),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrDocumentNotFound), errors.Is(err, ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
