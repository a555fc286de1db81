// Package formats counts and splits paginated documents.
// Each supported file extension maps to a Strategy: a Counter that reports
// the number of pages and an optional Splitter that decomposes the document
// into independent single-page documents of the same format.
package formats

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Counter reports the page count of a document.
type Counter interface {
	Count(data []byte) (int, error)
}

// Splitter decomposes a document into an ordered sequence of page blobs.
// The returned slice is indexed from zero; element i holds page i+1.
// Implementations must not modify data.
type Splitter interface {
	Split(data []byte) ([][]byte, error)
}

// Strategy pairs the counting and splitting rules for one format.
// A nil Splitter means the format can be counted but not split.
type Strategy struct {
	Counter  Counter
	Splitter Splitter
}

// Registry maps normalized file extensions to strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// New creates a registry with the built-in strategies:
// .pdf (native pages), .docx (Pages metadata) and .xlsx (sheet count).
// Office formats are split only when they hold exactly one page.
func New() *Registry {
	r := NewRegistry()
	r.Register(PDF, Strategy{Counter: pdfStrategy{}, Splitter: pdfStrategy{}})

	docx := docxCounter{}
	r.Register(DOCX, Strategy{Counter: docx, Splitter: wholeFile{format: DOCX, counter: docx}})

	xlsx := xlsxCounter{}
	r.Register(XLSX, Strategy{Counter: xlsx, Splitter: wholeFile{format: XLSX, counter: xlsx}})

	return r
}

// Register adds or replaces the strategy for a format.
func (r *Registry) Register(format string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[Normalize(format)] = s
}

// Supported reports whether format has a splitting strategy.
func (r *Registry) Supported(format string) bool {
	s, ok := r.lookup(format)
	return ok && s.Splitter != nil
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.strategies))
	for f := range r.strategies {
		result = append(result, f)
	}
	slices.Sort(result)
	return result
}

// Count returns the page count of data using the strategy for format.
func (r *Registry) Count(data []byte, format string) (int, error) {
	s, ok := r.lookup(format)
	if !ok || s.Counter == nil {
		return 0, fmt.Errorf("%w: no page counter for %q", ErrUnsupportedFormat, format)
	}
	return s.Counter.Count(data)
}

// Split decomposes data into page blobs using the strategy for format.
// Formats without a splitting strategy fail with ErrUnsupportedFormat.
func (r *Registry) Split(data []byte, format string) ([][]byte, error) {
	s, ok := r.lookup(format)
	if !ok || s.Splitter == nil {
		return nil, fmt.Errorf("%w: no splitter for %q", ErrUnsupportedFormat, format)
	}

	pages, err := s.Splitter.Split(data)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: %s document contains no pages", ErrUnsupportedFormat, Normalize(format))
	}
	return pages, nil
}

func (r *Registry) lookup(format string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[Normalize(format)]
	return s, ok
}

// Normalize lowercases an extension and ensures a leading dot.
// An empty input stays empty.
func Normalize(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return ""
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	return format
}

// FromFilename returns the normalized extension of name.
func FromFilename(name string) string {
	return Normalize(filepath.Ext(name))
}
