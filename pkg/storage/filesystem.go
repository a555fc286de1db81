package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/bookshelf/pkg/lifecycle"
)

// stagingDir holds in-progress bulk writes. The leading dot keeps it out of
// the key space, since keys may not begin with a dot.
const stagingDir = ".staging"

// filesystem implements System using the local filesystem.
// Each key maps to a single directory directly under the base path.
type filesystem struct {
	basePath    string
	concurrency int
	logger      *slog.Logger
}

// New creates a new filesystem page store.
// The base path is resolved to an absolute path during construction.
// Directory creation is deferred to Start() for lifecycle integration.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	concurrency := cfg.WriteConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &filesystem{
		basePath:    absPath,
		concurrency: concurrency,
		logger:      logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage system", "base_path", f.basePath)

	lc.OnStartup(func() {
		if err := os.MkdirAll(f.basePath, 0755); err != nil {
			f.logger.Error("storage initialization failed", "error", err)
			return
		}

		staging := filepath.Join(f.basePath, stagingDir)
		if err := os.RemoveAll(staging); err != nil {
			f.logger.Warn("failed to clear staging directory", "dir", staging, "error", err)
		}

		f.logger.Info("storage directory initialized")
	})

	return nil
}

func (f *filesystem) Initialize(ctx context.Context, key string) error {
	dir, err := f.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("create directory: %w", err)
	}

	return nil
}

func (f *filesystem) IsPopulated(ctx context.Context, key string) (bool, error) {
	dir, err := f.fullPath(key)
	if err != nil {
		return false, err
	}

	files, err := listPages(dir)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return false, nil
		}
		return false, err
	}

	return len(files) > 0, nil
}

func (f *filesystem) Stat(ctx context.Context, key string) (Stat, error) {
	dir, err := f.fullPath(key)
	if err != nil {
		return Stat{}, err
	}

	files, err := listPages(dir)
	if err != nil {
		return Stat{}, err
	}

	stat := Stat{Pages: len(files)}
	for _, pf := range files {
		if pf.ordinal == 1 {
			stat.Format = pf.format
			break
		}
	}
	if stat.Format == "" && len(files) > 0 {
		stat.Format = files[0].format
	}

	return stat, nil
}

func (f *filesystem) WritePage(ctx context.Context, key string, ordinal int, format string, data []byte) error {
	if ordinal < 1 {
		return ErrInvalidOrdinal
	}

	dir, err := f.fullPath(key)
	if err != nil {
		return err
	}

	files, err := listPages(dir)
	if err != nil {
		return err
	}

	name := pageName(ordinal, format)
	path := filepath.Join(dir, name)
	tmpPath := filepath.Join(dir, "."+name+".tmp")

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	for _, pf := range files {
		if pf.ordinal == ordinal && pf.name != name {
			if err := os.Remove(filepath.Join(dir, pf.name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				f.logger.Warn("failed to remove superseded page", "key", key, "file", pf.name, "error", err)
			}
		}
	}

	return nil
}

func (f *filesystem) WritePages(ctx context.Context, key string, format string, pages [][]byte) error {
	dir, err := f.fullPath(key)
	if err != nil {
		return err
	}

	populated, err := f.IsPopulated(ctx, key)
	if err != nil {
		return err
	}
	if populated {
		return ErrAlreadyPopulated
	}

	staging := filepath.Join(f.basePath, stagingDir, uuid.NewString())
	if err := os.MkdirAll(staging, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(staging, pageName(i+1, format))
			if err := os.WriteFile(path, page, 0644); err != nil {
				return fmt.Errorf("write page %d: %w", i+1, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// The directory holds no pages here, only leftovers such as abandoned
	// temp files, so it is cleared ahead of the promotion.
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear document directory: %w", err)
	}

	if err := os.Rename(staging, dir); err != nil {
		return fmt.Errorf("promote pages: %w", err)
	}

	f.logger.Debug("pages written", "key", key, "pages", len(pages), "format", format)
	return nil
}

func (f *filesystem) ReadPage(ctx context.Context, key string, ordinal int) ([]byte, string, error) {
	if ordinal < 1 {
		return nil, "", ErrPageNotFound
	}

	dir, err := f.fullPath(key)
	if err != nil {
		return nil, "", err
	}

	files, err := listPages(dir)
	if err != nil {
		return nil, "", err
	}

	for _, pf := range files {
		if pf.ordinal != ordinal {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, pf.name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, "", ErrPageNotFound
			}
			if errors.Is(err, fs.ErrPermission) {
				return nil, "", ErrPermissionDenied
			}
			return nil, "", fmt.Errorf("read page: %w", err)
		}
		return data, pf.format, nil
	}

	return nil, "", ErrPageNotFound
}

func (f *filesystem) DeleteDocument(ctx context.Context, key string) error {
	dir, err := f.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("remove directory: %w", err)
	}

	return nil
}

func (f *filesystem) fullPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}

	if strings.ContainsAny(key, `/\`) || filepath.Base(key) != key {
		return "", ErrInvalidKey
	}

	return filepath.Join(f.basePath, key), nil
}

type pageFile struct {
	name    string
	ordinal int
	format  string
}

func pageName(ordinal int, format string) string {
	return strconv.Itoa(ordinal) + format
}

// listPages returns the page files of a document directory. Dotfiles,
// subdirectories, and names without a leading ordinal are ignored.
func listPages(dir string) ([]pageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []pageFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		dot := strings.IndexByte(name, '.')
		if dot <= 0 {
			continue
		}

		ordinal, err := strconv.Atoi(name[:dot])
		if err != nil || ordinal < 1 {
			continue
		}

		files = append(files, pageFile{
			name:    name,
			ordinal: ordinal,
			format:  strings.ToLower(name[dot:]),
		})
	}

	return files, nil
}
