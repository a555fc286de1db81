// Package storage provides the page store: one directory per document under a
// configurable base path, holding one file per page named {ordinal}{ext}.
// Every read and write goes to the filesystem; nothing is cached.
package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrDocumentNotFound indicates the document directory does not exist.
	ErrDocumentNotFound = errors.New("storage: document not found")

	// ErrPageNotFound indicates the document exists but has no file for the ordinal.
	ErrPageNotFound = errors.New("storage: page not found")

	// ErrAlreadyPopulated indicates a bulk write targeted a document that already holds pages.
	ErrAlreadyPopulated = errors.New("storage: document already populated")

	// ErrPermissionDenied indicates insufficient permissions to access the document.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty, reserved, or not a single path segment.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrInvalidOrdinal indicates a page ordinal below 1.
	ErrInvalidOrdinal = errors.New("storage: invalid ordinal")
)
