// Package formatstest builds small in-memory documents for tests.
package formatstest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// PDF returns a valid PDF with the given number of pages.
// Each page draws a square whose size depends on its page number,
// so page content differs between pages.
func PDF(pages int) []byte {
	return PDFWithSeed(pages, 0)
}

// PDFWithSeed is like PDF but offsets the drawn shapes by seed,
// producing different bytes for documents with the same page count.
func PDFWithSeed(pages, seed int) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))

	for i := range pages {
		obj(fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents %d 0 R >>",
			4+2*i,
		))
		size := 10*(i+1) + seed
		content := fmt.Sprintf("0 0 %d %d re f", size, size)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// DOCX returns a word-processing package whose extended properties
// report the given page count. A negative count omits the Pages field.
func DOCX(pages int) []byte {
	app := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>bookshelf</Application>`
	if pages >= 0 {
		app += fmt.Sprintf("<Pages>%d</Pages>", pages)
	}
	app += `</Properties>`

	return buildZip(map[string]string{
		"docProps/app.xml": app,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body><w:p><w:r><w:t>page</w:t></w:r></w:p></w:body></w:document>`,
	})
}

// XLSX returns a spreadsheet package with the given number of sheets.
func XLSX(sheets int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheets>`)
	for i := range sheets {
		fmt.Fprintf(&b, `<sheet name="Sheet%d" sheetId="%d"/>`, i+1, i+1)
	}
	b.WriteString(`</sheets></workbook>`)

	return buildZip(map[string]string{
		"xl/workbook.xml": b.String(),
	})
}

func buildZip(parts map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
