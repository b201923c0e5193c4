package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo implementación de MenuRepository sobre la tabla menu_items.
type MenuRepo struct {
	q Querier
}

// NewMenuRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuRepository(q Querier) *MenuRepo {
	return &MenuRepo{q: q}
}

const menuColumns = `COALESCE(code, ''), name, unit_price, category, created_at, updated_at`

func nameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Create inserta un ítem del menú.
func (r *MenuRepo) Create(ctx context.Context, item *entity.MenuItem) error {
	query := `
		INSERT INTO menu_items (name_key, code, name, unit_price, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		nameKey(item.Name), nullIfEmpty(item.Code), item.Name, item.UnitPrice.Round(2),
		string(item.Category), item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, item.Name)
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

// GetByName obtiene un ítem por nombre (sin distinguir mayúsculas).
func (r *MenuRepo) GetByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	row := r.q.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE name_key = $1`, nameKey(name))
	it, err := scanMenuItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return it, err
}

// Update actualiza código, precio y categoría.
func (r *MenuRepo) Update(ctx context.Context, item *entity.MenuItem) error {
	query := `
		UPDATE menu_items
		SET code = $2, unit_price = $3, category = $4, updated_at = $5
		WHERE name_key = $1`
	tag, err := r.q.Exec(ctx, query,
		nameKey(item.Name), nullIfEmpty(item.Code), item.UnitPrice.Round(2),
		string(item.Category), item.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, item.Name)
	}
	return nil
}

// Delete elimina un ítem del menú.
func (r *MenuRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE name_key = $1`, nameKey(name))
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return nil
}

// List devuelve el menú ordenado por nombre.
func (r *MenuRepo) List(ctx context.Context) ([]*entity.MenuItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY name`)
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

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	var (
		it       entity.MenuItem
		category string
	)
	err := row.Scan(&it.Code, &it.Name, &it.UnitPrice, &category, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	it.Category = entity.TaxCategory(category)
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}
