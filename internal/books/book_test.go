package books_test

import (
	"testing"

	"github.com/JaimeStill/bookshelf/internal/books"
)

func TestStorageKey(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{5, "5"},
		{1234567890123, "1234567890123"},
	}

	for _, tt := range tests {
		book := &books.Book{ID: tt.id, Name: "Alice"}
		if got := book.StorageKey(); got != tt.want {
			t.Errorf("StorageKey(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestStorageKey_IgnoresName(t *testing.T) {
	a := &books.Book{ID: 5, Name: "Alice"}
	b := &books.Book{ID: 5, Name: "Renamed"}

	if a.StorageKey() != b.StorageKey() {
		t.Error("storage key changed with display name")
	}
}
