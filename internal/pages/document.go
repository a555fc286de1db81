// Package pages stores uploaded books as one file per page and serves,
// replaces, and deletes those pages. Mutations on a book are serialized by a
// per-book lock; reads go straight to the page store.
package pages

import "context"

// Document describes the pages currently held for a book.
type Document struct {
	BookID     int64  `json:"book_id"`
	StorageKey string `json:"storage_key"`
	Format     string `json:"format"`
	PageCount  int    `json:"page_count"`
}

// Page is a single stored page.
type Page struct {
	BookID      int64
	Ordinal     int
	Format      string
	ContentType string
	Data        []byte
}

// Notifier receives the storage key of a book whose pages changed.
type Notifier interface {
	Notify(key string)
}

// System defines the paginated document operations.
type System interface {
	// Upload splits the file into pages and stores them for a book that has
	// no pages yet.
	Upload(ctx context.Context, bookID int64, fileName string, data []byte) (*Document, error)

	// Info reports the format and page count of a book's stored pages.
	Info(ctx context.Context, bookID int64) (*Document, error)

	// Page returns one stored page.
	Page(ctx context.Context, bookID int64, ordinal int) (*Page, error)

	// ReplacePage overwrites an existing page with a single-page file of the
	// book's format and notifies subscribers once the write is complete.
	ReplacePage(ctx context.Context, bookID int64, ordinal int, fileName string, data []byte) (*Document, error)

	// Delete removes every page of a book. Deleting a book without pages succeeds.
	Delete(ctx context.Context, bookID int64) error
}
