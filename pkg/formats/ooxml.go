package formats

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	docxAppPart      = "docProps/app.xml"
	xlsxWorkbookPart = "xl/workbook.xml"
)

// docxCounter reads the Pages field of the extended properties part.
// Documents without the field count as zero pages.
type docxCounter struct{}

func (docxCounter) Count(data []byte) (int, error) {
	doc, err := openPart(data, docxAppPart)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	node := xmlquery.FindOne(doc, "//*[local-name()='Pages']")
	if node == nil {
		return 0, nil
	}

	pages, err := strconv.Atoi(strings.TrimSpace(node.InnerText()))
	if err != nil || pages < 0 {
		return 0, nil
	}
	return pages, nil
}

// xlsxCounter treats each worksheet as a page.
type xlsxCounter struct{}

func (xlsxCounter) Count(data []byte) (int, error) {
	doc, err := openPart(data, xlsxWorkbookPart)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: missing %s", ErrMalformed, xlsxWorkbookPart)
		}
		return 0, err
	}

	return len(xmlquery.Find(doc, "//*[local-name()='sheets']/*[local-name()='sheet']")), nil
}

// wholeFile splits formats that are not natively page-addressable.
// Only single-page documents can be split: the document becomes page 1.
type wholeFile struct {
	format  string
	counter Counter
}

func (w wholeFile) Split(data []byte) ([][]byte, error) {
	count, err := w.counter.Count(data)
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, fmt.Errorf(
			"%w: %s documents can only be paged when they hold a single page, got %d",
			ErrUnsupportedFormat, w.format, count,
		)
	}
	return [][]byte{bytes.Clone(data)}, nil
}

func openPart(data []byte, name string) (*xmlquery.Node, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrMalformed, name, err)
	}
	return doc, nil
}
