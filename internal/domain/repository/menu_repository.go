package repository

import (
	"context"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// MenuRepository define el puerto de persistencia del menú (DIP).
// GetByName devuelve domain.ErrNotFound si el ítem no existe;
// Create devuelve domain.ErrDuplicateKey si el nombre ya está registrado.
type MenuRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByName(ctx context.Context, name string) (*entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*entity.MenuItem, error)
}
