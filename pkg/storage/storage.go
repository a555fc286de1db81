package storage

import (
	"context"

	"github.com/JaimeStill/bookshelf/pkg/lifecycle"
)

// Stat summarizes the pages held for a document.
type Stat struct {
	Pages  int
	Format string
}

// System defines the page store operations, keyed by document storage key.
type System interface {
	// Initialize ensures the document directory exists. Idempotent.
	Initialize(ctx context.Context, key string) error

	// IsPopulated reports whether the document directory exists and holds at least one page.
	IsPopulated(ctx context.Context, key string) (bool, error)

	// Stat returns the page count and format of a document.
	// Returns ErrDocumentNotFound if the directory does not exist.
	Stat(ctx context.Context, key string) (Stat, error)

	// WritePage creates or replaces the file for a single page. The new
	// content is written to a temporary file and renamed into place, so
	// readers observe either the old or the new page.
	// Returns ErrDocumentNotFound if the directory does not exist.
	WritePage(ctx context.Context, key string, ordinal int, format string, data []byte) error

	// WritePages writes a complete split document. Pages are staged in a
	// private directory and promoted with a single rename, so a failed write
	// never leaves a partially populated document.
	// Returns ErrAlreadyPopulated if the document already holds pages.
	WritePages(ctx context.Context, key string, format string, pages [][]byte) error

	// ReadPage returns the content and format of the page whose file name
	// begins with "{ordinal}.".
	// Returns ErrDocumentNotFound or ErrPageNotFound.
	ReadPage(ctx context.Context, key string, ordinal int) ([]byte, string, error)

	// DeleteDocument removes the document directory and all pages.
	// Returns nil if the document does not exist.
	DeleteDocument(ctx context.Context, key string) error

	// Start registers lifecycle hooks with the coordinator.
	// The base directory is created and abandoned staging directories are removed.
	Start(lc *lifecycle.Coordinator) error
}
