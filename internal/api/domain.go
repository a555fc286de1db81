package api

import (
	"github.com/JaimeStill/bookshelf/internal/books"
	"github.com/JaimeStill/bookshelf/internal/pages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Books books.System
	Pages pages.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	booksSys := books.New(runtime.Database.Connection(), runtime.Logger)

	pagesSys := pages.New(
		booksSys,
		runtime.Storage,
		runtime.Formats,
		runtime.Locks,
		runtime.Hub,
		runtime.Logger,
	)

	return &Domain{
		Books: booksSys,
		Pages: pagesSys,
	}
}
