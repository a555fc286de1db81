package books

import "context"

// System is the metadata store contract consumed by the page store.
type System interface {
	// Find returns the book with the given id or ErrNotFound.
	Find(ctx context.Context, id int64) (*Book, error)

	// RecordFormat stores the declared format of the book's pages.
	RecordFormat(ctx context.Context, id int64, format string) error

	// ClearFormat removes the declared format after the pages are deleted.
	ClearFormat(ctx context.Context, id int64) error
}
