package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS menu_items (
    name_key   TEXT PRIMARY KEY,
    code       TEXT,
    name       TEXT NOT NULL,
    unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
    category   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id            TEXT PRIMARY KEY,
    bill_no       TEXT UNIQUE,
    customer_name TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    ts            TIMESTAMPTZ NOT NULL,
    items         JSONB NOT NULL,
    tax_breakdown JSONB NOT NULL,
    subtotal      NUMERIC(14,2) NOT NULL,
    tax           NUMERIC(14,2) NOT NULL,
    total         NUMERIC(14,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bills_ts ON bills (ts);
`

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
