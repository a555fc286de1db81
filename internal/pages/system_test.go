package pages_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/JaimeStill/bookshelf/internal/books"
	"github.com/JaimeStill/bookshelf/internal/pages"
	"github.com/JaimeStill/bookshelf/pkg/formats"
	"github.com/JaimeStill/bookshelf/pkg/formats/formatstest"
	"github.com/JaimeStill/bookshelf/pkg/locks"
	"github.com/JaimeStill/bookshelf/pkg/storage"
)

type bookStore struct {
	mu    sync.Mutex
	books map[int64]*books.Book
}

func newBookStore(list ...books.Book) *bookStore {
	s := &bookStore{books: make(map[int64]*books.Book)}
	for _, b := range list {
		s.books[b.ID] = &b
	}
	return s
}

func (s *bookStore) Find(ctx context.Context, id int64) (*books.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return nil, books.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *bookStore) RecordFormat(ctx context.Context, id int64, format string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return books.ErrNotFound
	}
	b.Format = &format
	return nil
}

func (s *bookStore) ClearFormat(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return books.ErrNotFound
	}
	b.Format = nil
	return nil
}

func (s *bookStore) format(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.books[id]; ok && b.Format != nil {
		return *b.Format
	}
	return ""
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Notify(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *recorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.keys {
		if k == key {
			n++
		}
	}
	return n
}

type fixture struct {
	sys      pages.System
	books    *bookStore
	notified *recorder
	dir      string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.New(&storage.Config{BasePath: dir, WriteConcurrency: 4}, discardLogger())
	if err != nil {
		t.Fatalf("storage.New() failed: %v", err)
	}

	bs := newBookStore(
		books.Book{ID: 5, Name: "Alice"},
		books.Book{ID: 6, Name: "Bob"},
	)
	rec := &recorder{}

	return &fixture{
		sys:      pages.New(bs, store, formats.New(), locks.New(), rec, discardLogger()),
		books:    bs,
		notified: rec,
		dir:      dir,
	}
}

func (f *fixture) upload(t *testing.T, id int64, pageCount int) {
	t.Helper()
	if _, err := f.sys.Upload(context.Background(), id, "book.pdf", formatstest.PDF(pageCount)); err != nil {
		t.Fatalf("Upload(%d) failed: %v", id, err)
	}
}

func (f *fixture) snapshot(t *testing.T, id int64, count int) [][]byte {
	t.Helper()
	result := make([][]byte, count)
	for i := range count {
		p, err := f.sys.Page(context.Background(), id, i+1)
		if err != nil {
			t.Fatalf("Page(%d, %d) failed: %v", id, i+1, err)
		}
		result[i] = p.Data
	}
	return result
}

func assertUnchanged(t *testing.T, before, after [][]byte) {
	t.Helper()
	for i := range before {
		if !bytes.Equal(before[i], after[i]) {
			t.Errorf("page %d changed", i+1)
		}
	}
}

func TestUpload_ThreePagePDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.sys.Upload(ctx, 5, "Alice.PDF", formatstest.PDF(3))
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}
	if doc.PageCount != 3 || doc.Format != ".pdf" || doc.StorageKey != "5" {
		t.Errorf("Upload() = %+v", doc)
	}

	entries, err := os.ReadDir(filepath.Join(f.dir, "5"))
	if err != nil {
		t.Fatalf("read document directory: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"1.pdf", "2.pdf", "3.pdf"}) {
		t.Errorf("stored files = %v, want 1.pdf 2.pdf 3.pdf", names)
	}

	seen := make(map[string]int)
	for i := 1; i <= 3; i++ {
		p, err := f.sys.Page(ctx, 5, i)
		if err != nil {
			t.Fatalf("Page(5, %d) failed: %v", i, err)
		}
		if p.ContentType != "application/pdf" {
			t.Errorf("Page(5, %d) content type = %q", i, p.ContentType)
		}
		onDisk, _ := os.ReadFile(filepath.Join(f.dir, "5", names[i-1]))
		if !bytes.Equal(p.Data, onDisk) {
			t.Errorf("Page(5, %d) does not match %s", i, names[i-1])
		}
		if prev, dup := seen[string(p.Data)]; dup {
			t.Errorf("pages %d and %d are identical", prev, i)
		}
		seen[string(p.Data)] = i
	}

	if _, err := f.sys.Page(ctx, 5, 4); !errors.Is(err, pages.ErrPageNotFound) {
		t.Errorf("Page(5, 4) error = %v, want ErrPageNotFound", err)
	}

	if got := f.books.format(5); got != ".pdf" {
		t.Errorf("recorded format = %q, want .pdf", got)
	}
}

func TestUpload_AlreadyExists(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"same format", "other.pdf", formatstest.PDFWithSeed(2, 40)},
		{"other supported format", "other.docx", formatstest.DOCX(1)},
		{"unknown extension", "other.txt", []byte("text")},
		{"no extension", "other", []byte("text")},
		{"malformed content", "other.pdf", []byte("not a pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.upload(t, 5, 2)
			before := f.snapshot(t, 5, 2)

			_, err := f.sys.Upload(context.Background(), 5, tt.file, tt.data)
			if !errors.Is(err, pages.ErrAlreadyExists) {
				t.Fatalf("Upload() error = %v, want ErrAlreadyExists", err)
			}

			assertUnchanged(t, before, f.snapshot(t, 5, 2))
		})
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		file    string
		data    []byte
		wantErr error
	}{
		{"empty", 5, "book.pdf", nil, pages.ErrEmptyUpload},
		{"unknown extension", 5, "book.txt", []byte("text"), pages.ErrUnsupportedFormat},
		{"no extension", 5, "book", []byte("text"), pages.ErrUnsupportedFormat},
		{"multi-page docx", 5, "book.docx", formatstest.DOCX(3), pages.ErrUnsupportedFormat},
		{"malformed pdf", 5, "book.pdf", []byte("not a pdf"), pages.ErrMalformedDocument},
		{"unknown book", 99, "book.pdf", formatstest.PDF(1), pages.ErrDocumentNotFound},
		{"unknown book and extension", 99, "book.txt", []byte("text"), pages.ErrDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.sys.Upload(context.Background(), tt.id, tt.file, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Upload() error = %v, want %v", err, tt.wantErr)
			}

			if _, err := os.Stat(filepath.Join(f.dir, books.StorageKey(tt.id))); !os.IsNotExist(err) {
				t.Error("rejected upload left a document directory")
			}
		})
	}
}

func TestUpload_SinglePageDOCX(t *testing.T) {
	f := newFixture(t)

	doc, err := f.sys.Upload(context.Background(), 6, "notes.docx", formatstest.DOCX(1))
	if err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}
	if doc.PageCount != 1 || doc.Format != ".docx" {
		t.Errorf("Upload() = %+v", doc)
	}

	p, err := f.sys.Page(context.Background(), 6, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.ContentType != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Errorf("content type = %q", p.ContentType)
	}
}

func TestUpload_Concurrent(t *testing.T) {
	f := newFixture(t)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.sys.Upload(context.Background(), 5, "book.pdf", formatstest.PDFWithSeed(2, i))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, pages.ErrAlreadyExists):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("%d uploads succeeded, want exactly 1", succeeded)
	}

	doc, err := f.sys.Info(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if doc.PageCount != 2 {
		t.Errorf("page count = %d, want 2", doc.PageCount)
	}
}

func TestReplacePage(t *testing.T) {
	f := newFixture(t)
	f.upload(t, 5, 3)
	f.upload(t, 6, 1)
	before := f.snapshot(t, 5, 3)

	replacement := formatstest.PDFWithSeed(1, 77)
	doc, err := f.sys.ReplacePage(context.Background(), 5, 2, "new.pdf", replacement)
	if err != nil {
		t.Fatalf("ReplacePage() failed: %v", err)
	}
	if doc.PageCount != 3 {
		t.Errorf("page count = %d, want 3", doc.PageCount)
	}

	after := f.snapshot(t, 5, 3)
	if !bytes.Equal(after[1], replacement) {
		t.Error("page 2 not replaced")
	}
	if !bytes.Equal(after[0], before[0]) || !bytes.Equal(after[2], before[2]) {
		t.Error("pages other than 2 changed")
	}

	if n := f.notified.count("5"); n != 1 {
		t.Errorf("notifications for book 5 = %d, want 1", n)
	}
	if n := f.notified.count("6"); n != 0 {
		t.Errorf("notifications for book 6 = %d, want 0", n)
	}
}

func TestReplacePage_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		ordinal int
		file    string
		data    []byte
		wantErr error
	}{
		{"format mismatch", 5, 1, "page.docx", formatstest.DOCX(1), pages.ErrFormatMismatch},
		{"two pages", 5, 1, "page.pdf", formatstest.PDF(2), pages.ErrInvalidPageCount},
		{"empty", 5, 1, "page.pdf", nil, pages.ErrEmptyUpload},
		{"ordinal past end", 5, 4, "page.pdf", formatstest.PDF(1), pages.ErrPageNotFound},
		{"ordinal zero", 5, 0, "page.pdf", formatstest.PDF(1), pages.ErrPageNotFound},
		{"unpopulated book", 6, 1, "page.pdf", formatstest.PDF(1), pages.ErrDocumentNotFound},
		{"unknown book", 99, 1, "page.pdf", formatstest.PDF(1), pages.ErrDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.upload(t, 5, 3)
			before := f.snapshot(t, 5, 3)

			_, err := f.sys.ReplacePage(context.Background(), tt.id, tt.ordinal, tt.file, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReplacePage() error = %v, want %v", err, tt.wantErr)
			}

			assertUnchanged(t, before, f.snapshot(t, 5, 3))
			if len(f.notified.keys) != 0 {
				t.Errorf("notifications sent on failure: %v", f.notified.keys)
			}
		})
	}
}

func TestReplacePage_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.upload(t, 5, 3)

	p, err := f.sys.Page(ctx, 5, 2)
	if err != nil || p.ContentType != "application/pdf" {
		t.Fatalf("Page(5, 2) = %v, %v", p, err)
	}

	if _, err := f.sys.ReplacePage(ctx, 5, 1, "one.pdf", formatstest.PDFWithSeed(1, 3)); err != nil {
		t.Fatalf("ReplacePage() single page failed: %v", err)
	}
	if n := f.notified.count("5"); n != 1 {
		t.Fatalf("notifications after replace = %d, want 1", n)
	}

	if _, err := f.sys.ReplacePage(ctx, 5, 1, "two.pdf", formatstest.PDF(2)); !errors.Is(err, pages.ErrInvalidPageCount) {
		t.Fatalf("ReplacePage() two pages error = %v, want ErrInvalidPageCount", err)
	}
	if n := f.notified.count("5"); n != 1 {
		t.Errorf("notifications after rejected replace = %d, want 1", n)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.upload(t, 5, 2)

	for range 2 {
		if err := f.sys.Delete(ctx, 5); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
	}

	for _, ordinal := range []int{1, 2, 3} {
		if _, err := f.sys.Page(ctx, 5, ordinal); !errors.Is(err, pages.ErrDocumentNotFound) {
			t.Errorf("Page(5, %d) error = %v, want ErrDocumentNotFound", ordinal, err)
		}
	}

	if _, err := f.sys.Info(ctx, 5); !errors.Is(err, pages.ErrDocumentNotFound) {
		t.Errorf("Info() error = %v, want ErrDocumentNotFound", err)
	}
	if got := f.books.format(5); got != "" {
		t.Errorf("recorded format = %q after delete, want none", got)
	}

	f.upload(t, 5, 1)
}

func TestDelete_UnknownBook(t *testing.T) {
	f := newFixture(t)

	if err := f.sys.Delete(context.Background(), 99); err != nil {
		t.Errorf("Delete() unknown book error = %v, want nil", err)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err    error
		kind   string
		status int
	}{
		{pages.ErrUnsupportedFormat, "UnsupportedFormat", 400},
		{pages.ErrMalformedDocument, "MalformedDocument", 400},
		{pages.ErrFormatMismatch, "FormatMismatch", 400},
		{pages.ErrInvalidPageCount, "InvalidPageCount", 400},
		{pages.ErrEmptyUpload, "EmptyUpload", 400},
		{pages.ErrInvalidRequest, "InvalidRequest", 400},
		{pages.ErrAlreadyExists, "AlreadyExists", 409},
		{pages.ErrDocumentNotFound, "DocumentNotFound", 404},
		{pages.ErrPageNotFound, "PageNotFound", 404},
		{pages.ErrFileTooLarge, "FileTooLarge", 413},
		{pages.ErrStorage, "StorageError", 500},
		{errors.New("disk on fire"), "StorageError", 500},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			wrapped := errors.Join(tt.err)
			if got := pages.Kind(wrapped); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}
			if got := pages.MapHTTPStatus(wrapped); got != tt.status {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}
