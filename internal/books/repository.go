package books

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/JaimeStill/bookshelf/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a PostgreSQL-backed book repository.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "books"),
	}
}

func (r *repo) Find(ctx context.Context, id int64) (*Book, error) {
	const q = `SELECT id, name, format FROM books WHERE id = $1`

	book, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanBook)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}
	return &book, nil
}

func (r *repo) RecordFormat(ctx context.Context, id int64, format string) error {
	const q = `UPDATE books SET format = $1, updated_at = NOW() WHERE id = $2`

	if err := repository.ExecExpectOne(ctx, r.db, q, format, id); err != nil {
		return repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("book format recorded", "id", id, "format", format)
	return nil
}

func (r *repo) ClearFormat(ctx context.Context, id int64) error {
	const q = `UPDATE books SET format = NULL, updated_at = NOW() WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, err)
	}
	return nil
}

func scanBook(s repository.Scanner) (Book, error) {
	var b Book
	var format sql.NullString

	if err := s.Scan(&b.ID, &b.Name, &format); err != nil {
		return Book{}, err
	}
	if format.Valid {
		b.Format = &format.String
	}
	return b, nil
}
