package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/bookshelf/pkg/formats"
	"github.com/JaimeStill/bookshelf/pkg/formats/formatstest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(formats.New())
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    string
		wantErr bool
	}{
		{"pdf", "book.pdf", formatstest.PDF(3), "3", false},
		{"docx", "memo.docx", formatstest.DOCX(2), "2", false},
		{"unsupported", "notes.txt", []byte("hello"), "", true},
		{"malformed", "broken.pdf", []byte("not a pdf"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "count", writeFile(t, tt.file, tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("count error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.TrimSpace(out) != tt.want {
				t.Errorf("count output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	src := writeFile(t, "book.pdf", formatstest.PDF(2))
	dir := filepath.Join(t.TempDir(), "pages")

	if _, err := run(t, "split", src, dir); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	for _, name := range []string{"1.pdf", "2.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	if _, err := run(t, "split", src, dir); err == nil {
		t.Error("split into non-empty directory succeeded without --force")
	}
	if _, err := run(t, "split", "--force", src, dir); err != nil {
		t.Errorf("split --force failed: %v", err)
	}
}

func TestFormats(t *testing.T) {
	out, err := run(t, "formats")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{".pdf", ".docx", ".xlsx"} {
		if !strings.Contains(out, f) {
			t.Errorf("formats output missing %s:\n%s", f, out)
		}
	}
}
