// Package database owns the PostgreSQL connection pool and its lifecycle.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/bookshelf/pkg/lifecycle"
)

// ErrNotReady indicates the connection has not completed its startup ping.
var ErrNotReady = errors.New("database not ready")

// System manages a database connection pool.
type System interface {
	Connection() *sql.DB
	Ready() bool
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn   *sql.DB
	cfg    *Config
	ready  atomic.Bool
	logger *slog.Logger
}

// New opens a connection pool using the pgx stdlib driver.
// The pool is verified during Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	conn, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("system", "database"),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database system", "host", d.cfg.Host, "name", d.cfg.Name)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.cfg.ConnTimeoutDuration())
		defer cancel()

		if err := d.conn.PingContext(ctx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return
		}

		d.ready.Store(true)
		d.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database connection closed")
	})

	return nil
}
