package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/billcodec"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo tabla menu_items indexada por nombre en minúsculas.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepository construye el adaptador sobre la conexión abierta.
func NewMenuRepository(d *DB) *MenuRepo {
	return &MenuRepo{db: d.db}
}

func nameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Create inserta un ítem. ErrDuplicateKey si el nombre ya existe.
func (r *MenuRepo) Create(ctx context.Context, item *entity.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (name_key, code, name, unit_price, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nameKey(item.Name), nullIfEmpty(item.Code), item.Name, billcodec.Money(item.UnitPrice),
		string(item.Category), item.CreatedAt.UTC().UnixNano(), item.UpdatedAt.UTC().UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, item.Name)
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetByName obtiene un ítem por nombre.
func (r *MenuRepo) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT code, name, unit_price, category, created_at, updated_at FROM menu_items WHERE name_key = ?`,
		nameKey(name))
	it, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return it, err
}

// Update reemplaza código, precio y categoría. ErrNotFound si no existe.
func (r *MenuRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET code = ?, unit_price = ?, category = ?, updated_at = ? WHERE name_key = ?`,
		nullIfEmpty(item.Code), billcodec.Money(item.UnitPrice), string(item.Category),
		item.UpdatedAt.UTC().UnixNano(), nameKey(item.Name),
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, item.Name)
	}
	return nil
}

// Delete elimina un ítem. ErrNotFound si no existe.
func (r *MenuRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE name_key = ?`, nameKey(name))
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return nil
}

// List devuelve el menú ordenado por nombre.
func (r *MenuRepo) List(ctx context.Context) ([]*entity.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, name, unit_price, category, created_at, updated_at FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()
	var list []*entity.MenuItem
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanMenuItem(s scanner) (*entity.MenuItem, error) {
	var (
		it               entity.MenuItem
		code             sql.NullString
		price, category  string
		created, updated int64
	)
	if err := s.Scan(&code, &it.Name, &price, &category, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	p, err := billcodec.ParseMoney(price)
	if err != nil {
		return nil, err
	}
	it.Code = code.String
	it.UnitPrice = p
	it.Category = entity.TaxCategory(category)
	it.CreatedAt = time.Unix(0, created).UTC()
	it.UpdatedAt = time.Unix(0, updated).UTC()
	return &it, nil
}
