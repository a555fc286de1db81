// Package books is the metadata store for book records. The paginated page
// store consults it for identity and records the format of the first upload.
package books

import (
	"errors"
	"strconv"
)

// ErrNotFound indicates no book exists with the requested id.
var ErrNotFound = errors.New("book not found")

// Book is the metadata record owned by this package.
type Book struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Format *string `json:"format,omitempty"`
}

// StorageKey returns the page store key for the book. It derives from the
// immutable id so renaming a book never moves its pages.
func (b *Book) StorageKey() string {
	return StorageKey(b.ID)
}

// StorageKey formats a book id as a page store key.
func StorageKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
