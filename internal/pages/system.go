package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/bookshelf/internal/books"
	"github.com/JaimeStill/bookshelf/pkg/formats"
	"github.com/JaimeStill/bookshelf/pkg/locks"
	"github.com/JaimeStill/bookshelf/pkg/storage"
)

type system struct {
	books    books.System
	store    storage.System
	formats  *formats.Registry
	locks    *locks.Manager
	notifier Notifier
	logger   *slog.Logger
}

// New creates the paginated document system.
func New(
	bookSys books.System,
	store storage.System,
	registry *formats.Registry,
	lockMgr *locks.Manager,
	notifier Notifier,
	logger *slog.Logger,
) System {
	return &system{
		books:    bookSys,
		store:    store,
		formats:  registry,
		locks:    lockMgr,
		notifier: notifier,
		logger:   logger.With("system", "pages"),
	}
}

func (s *system) Upload(ctx context.Context, bookID int64, fileName string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	key := book.StorageKey()
	format := formats.FromFilename(fileName)

	var doc *Document
	err = s.locks.With(ctx, key, func(ctx context.Context) error {
		populated, err := s.store.IsPopulated(ctx, key)
		if err != nil {
			return storageError(err)
		}
		if populated {
			return fmt.Errorf("%w: book %d", ErrAlreadyExists, bookID)
		}

		if !s.formats.Supported(format) {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, fileName)
		}

		pages, err := s.formats.Split(data, format)
		if err != nil {
			return formatError(err)
		}

		if err := s.store.WritePages(ctx, key, format, pages); err != nil {
			if errors.Is(err, storage.ErrAlreadyPopulated) {
				return fmt.Errorf("%w: book %d", ErrAlreadyExists, bookID)
			}
			return storageError(err)
		}

		if err := s.books.RecordFormat(ctx, bookID, format); err != nil {
			if delErr := s.store.DeleteDocument(ctx, key); delErr != nil {
				s.logger.Error("cleanup failed after metadata error", "book_id", bookID, "error", delErr)
			}
			return fmt.Errorf("%w: record format: %v", ErrStorage, err)
		}

		doc = &Document{
			BookID:     bookID,
			StorageKey: key,
			Format:     format,
			PageCount:  len(pages),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document uploaded", "book_id", bookID, "format", format, "pages", doc.PageCount)
	return doc, nil
}

func (s *system) Info(ctx context.Context, bookID int64) (*Document, error) {
	key := books.StorageKey(bookID)

	stat, err := s.store.Stat(ctx, key)
	if err != nil {
		return nil, storageError(err)
	}
	if stat.Pages == 0 {
		return nil, fmt.Errorf("%w: book %d has no pages", ErrDocumentNotFound, bookID)
	}

	return &Document{
		BookID:     bookID,
		StorageKey: key,
		Format:     stat.Format,
		PageCount:  stat.Pages,
	}, nil
}

func (s *system) Page(ctx context.Context, bookID int64, ordinal int) (*Page, error) {
	data, format, err := s.store.ReadPage(ctx, books.StorageKey(bookID), ordinal)
	if err != nil {
		return nil, storageError(err)
	}

	return &Page{
		BookID:      bookID,
		Ordinal:     ordinal,
		Format:      format,
		ContentType: formats.ContentType(format),
		Data:        data,
	}, nil
}

func (s *system) ReplacePage(ctx context.Context, bookID int64, ordinal int, fileName string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	key := book.StorageKey()
	format := formats.FromFilename(fileName)

	var doc *Document
	err = s.locks.With(ctx, key, func(ctx context.Context) error {
		stat, err := s.store.Stat(ctx, key)
		if err != nil {
			return storageError(err)
		}
		if stat.Pages == 0 {
			return fmt.Errorf("%w: book %d has no pages", ErrDocumentNotFound, bookID)
		}

		declared := stat.Format
		if book.Format != nil && *book.Format != "" {
			declared = formats.Normalize(*book.Format)
		}
		if format != declared {
			return fmt.Errorf("%w: book %d is %s, got %q", ErrFormatMismatch, bookID, declared, fileName)
		}

		if ordinal < 1 || ordinal > stat.Pages {
			return fmt.Errorf("%w: book %d has %d pages, got %d", ErrPageNotFound, bookID, stat.Pages, ordinal)
		}

		count, err := s.formats.Count(data, format)
		if err != nil {
			return formatError(err)
		}
		if count != 1 {
			return fmt.Errorf("%w: replacement must hold exactly 1 page, got %d", ErrInvalidPageCount, count)
		}

		if err := s.store.WritePage(ctx, key, ordinal, format, data); err != nil {
			return storageError(err)
		}

		doc = &Document{
			BookID:     bookID,
			StorageKey: key,
			Format:     declared,
			PageCount:  stat.Pages,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page replaced", "book_id", bookID, "page", ordinal)
	s.notifier.Notify(key)

	return doc, nil
}

func (s *system) Delete(ctx context.Context, bookID int64) error {
	key := books.StorageKey(bookID)

	err := s.locks.With(ctx, key, func(ctx context.Context) error {
		if err := s.store.DeleteDocument(ctx, key); err != nil {
			return storageError(err)
		}

		if err := s.books.ClearFormat(ctx, bookID); err != nil && !errors.Is(err, books.ErrNotFound) {
			s.logger.Warn("failed to clear recorded format", "book_id", bookID, "error", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "book_id", bookID)
	return nil
}

func (s *system) findBook(ctx context.Context, bookID int64) (*books.Book, error) {
	book, err := s.books.Find(ctx, bookID)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			return nil, fmt.Errorf("%w: book %d does not exist", ErrDocumentNotFound, bookID)
		}
		return nil, fmt.Errorf("%w: lookup book: %v", ErrStorage, err)
	}
	return book, nil
}

func formatError(err error) error {
	switch {
	case errors.Is(err, formats.ErrUnsupportedFormat):
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	case errors.Is(err, formats.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrDocumentNotFound), errors.Is(err, storage.ErrInvalidKey):
		return fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
	case errors.Is(err, storage.ErrPageNotFound), errors.Is(err, storage.ErrInvalidOrdinal):
		return fmt.Errorf("%w: %v", ErrPageNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}
