package formats

import "errors"

// Format errors returned by Registry operations.
var (
	// ErrUnsupportedFormat indicates no counting or splitting strategy is
	// registered for the format, or the strategy cannot page the document.
	ErrUnsupportedFormat = errors.New("formats: unsupported format")

	// ErrMalformed indicates the document could not be decoded as its declared format.
	ErrMalformed = errors.New("formats: malformed document")
)
