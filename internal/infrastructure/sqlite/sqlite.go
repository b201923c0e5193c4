// Package sqlite implementa los repositorios sobre un archivo SQLite local
// (driver modernc.org/sqlite, Go puro, sin CGO).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB conexión compartida por los repositorios de menú y cuentas.
type DB struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema.
// path ":memory:" crea una base en memoria (una sola conexión).
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("crear directorio de la base: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migraciones sqlite: %w", err)
	}
	return &DB{db: db}, nil
}

// Close cierra la conexión.
func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
    name_key   TEXT PRIMARY KEY,
    code       TEXT,
    name       TEXT NOT NULL,
    unit_price TEXT NOT NULL,
    category   TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id            TEXT PRIMARY KEY,
    bill_no       TEXT UNIQUE,
    customer_name TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    ts            INTEGER NOT NULL, -- unix micros UTC
    items         TEXT NOT NULL,    -- json
    tax_breakdown TEXT NOT NULL,    -- json
    subtotal      TEXT NOT NULL,
    tax           TEXT NOT NULL,
    total         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bills_ts ON bills(ts);
`

func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// isUniqueViolation verifica si un error es una violación de UNIQUE o PRIMARY KEY.
func isUniqueViolation(err error) bool {
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
