// Package database owns the connection pool to the relational store and
// exposes the three primitives every repository is built on.  Statements are
// always written with `?` placeholders; the gateway rebinds them for the
// active driver so user input only ever travels as bound arguments.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/lib/pq"

	"github.com/iliyamo/hotel-booking-api/internal/config"
)

// Gateway is the query/execute surface used by repositories.  *DB
// implements it; tests may substitute their own.
type Gateway interface {
	// Select runs a query and scans every row into dest, a pointer to a slice.
	Select(ctx context.Context, dest any, query string, args ...any) error
	// Get runs a query and scans the first row into dest.  It returns
	// sql.ErrNoRows when the result set is empty.
	Get(ctx context.Context, dest any, query string, args ...any) error
	// Exec runs a write statement and reports the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// DB wraps a sqlx pool.
type DB struct {
	x *sqlx.DB
}

var _ Gateway = (*DB)(nil)

// Open connects to the configured store, applies the pool settings and
// verifies the connection with a bounded ping.
func Open(cfg config.DBConfig) (*DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	x, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == "postgres" {
		// postgres folds unquoted identifiers such as Nombre_cliente to lower case
		x.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
	}

	// Pool settings
	x.SetMaxOpenConns(cfg.MaxOpenConns)
	x.SetMaxIdleConns(cfg.MaxIdleConns)
	x.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := x.PingContext(ctx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return &DB{x: x}, nil
}

// New wraps an existing sqlx handle.  The driver name given to sqlx.NewDb
// decides the placeholder style.
func New(x *sqlx.DB) *DB { return &DB{x: x} }

func (d *DB) Close() error { return d.x.Close() }

// Ping checks that the store is still reachable.
func (d *DB) Ping(ctx context.Context) error { return d.x.PingContext(ctx) }

func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	return d.x.SelectContext(ctx, dest, d.x.Rebind(query), args...)
}

func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	return d.x.GetContext(ctx, dest, d.x.Rebind(query), args...)
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.x.ExecContext(ctx, d.x.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
