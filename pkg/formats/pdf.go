package formats

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	api.DisableConfigDir()
}

var splitName = regexp.MustCompile(`_(\d+)\.pdf$`)

// pdfStrategy counts and splits PDF documents with pdfcpu.
type pdfStrategy struct{}

func (pdfStrategy) Count(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return count, nil
}

// Split writes one single-page PDF per page into a temporary directory
// and reads them back in page order.
func (pdfStrategy) Split(data []byte) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "bookshelf-split-*")
	if err != nil {
		return nil, fmt.Errorf("create split directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := api.Split(bytes.NewReader(data), dir, "page", 1, newConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read split directory: %w", err)
	}

	type splitFile struct {
		page int
		path string
	}

	files := make([]splitFile, 0, len(entries))
	for _, e := range entries {
		m := splitName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, splitFile{page: page, path: filepath.Join(dir, e.Name())})
	}

	slices.SortFunc(files, func(a, b splitFile) int { return a.page - b.page })

	pages := make([][]byte, 0, len(files))
	for i, f := range files {
		if f.page != i+1 {
			return nil, fmt.Errorf("split output missing page %d", i+1)
		}
		b, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", f.page, err)
		}
		pages = append(pages, b)
	}

	return pages, nil
}

func newConfiguration() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}
