package repository

import (
	"context"
	"iter"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// DefaultRecentLimit cantidad de cuentas que devuelve ListRecent cuando limit <= 0.
const DefaultRecentLimit = 50

// BillRepository define el puerto de persistencia de cuentas cerradas.
type BillRepository interface {
	// Save persiste una cuenta cerrada. Devuelve domain.ErrDuplicateID si el ID
	// o el número de cuenta ya existen.
	Save(ctx context.Context, bill *entity.Bill) error
	// GetByID devuelve domain.ErrNotFound si la cuenta no existe.
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	// GetByNumber busca por número de cuenta visible. domain.ErrNotFound si no existe.
	GetByNumber(ctx context.Context, number string) (*entity.Bill, error)
	// Query produce las cuentas con from <= Timestamp < to, en orden ascendente.
	// Cada recorrido ejecuta una consulta nueva. from/to en cero = sin límite.
	Query(ctx context.Context, from, to time.Time) iter.Seq2[*entity.Bill, error]
	// ListRecent devuelve las últimas cuentas, la más reciente primero.
	// limit <= 0 usa DefaultRecentLimit.
	ListRecent(ctx context.Context, limit int) ([]*entity.Bill, error)
}
