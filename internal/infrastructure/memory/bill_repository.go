// Package memory implementa los repositorios en memoria (desarrollo y tests).
package memory

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo guarda copias de las cuentas; nunca expone los punteros internos.
type BillRepo struct {
	mu       sync.RWMutex
	byID     map[string]*entity.Bill
	byNumber map[string]string
}

// NewBillRepository crea el repositorio vacío.
func NewBillRepository() *BillRepo {
	return &BillRepo{
		byID:     make(map[string]*entity.Bill),
		byNumber: make(map[string]string),
	}
}

// Save persiste una copia de la cuenta.
func (r *BillRepo) Save(_ context.Context, bill *entity.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[bill.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, bill.ID)
	}
	if bill.Number != "" {
		if _, ok := r.byNumber[bill.Number]; ok {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicateID, bill.Number)
		}
		r.byNumber[bill.Number] = bill.ID
	}
	r.byID[bill.ID] = cloneBill(bill)
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *BillRepo) GetByID(_ context.Context, id string) (*entity.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, id)
	}
	return cloneBill(b), nil
}

// GetByNumber obtiene una cuenta por número visible.
func (r *BillRepo) GetByNumber(ctx context.Context, number string) (*entity.Bill, error) {
	r.mu.RLock()
	id, ok := r.byNumber[number]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: cuenta número %s", domain.ErrNotFound, number)
	}
	return r.GetByID(ctx, id)
}

// Query toma una foto del rango al iniciar cada recorrido.
func (r *BillRepo) Query(ctx context.Context, from, to time.Time) iter.Seq2[*entity.Bill, error] {
	return func(yield func(*entity.Bill, error) bool) {
		r.mu.RLock()
		var snapshot []*entity.Bill
		for _, b := range r.byID {
			if inRange(b.Timestamp, from, to) {
				snapshot = append(snapshot, cloneBill(b))
			}
		}
		r.mu.RUnlock()
		sortAscending(snapshot)
		for _, b := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

// ListRecent devuelve las últimas cuentas, la más reciente primero.
func (r *BillRepo) ListRecent(_ context.Context, limit int) ([]*entity.Bill, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentLimit
	}
	r.mu.RLock()
	all := make([]*entity.Bill, 0, len(r.byID))
	for _, b := range r.byID {
		all = append(all, cloneBill(b))
	}
	r.mu.RUnlock()
	sortAscending(all)
	out := make([]*entity.Bill, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func inRange(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && !ts.Before(to) {
		return false
	}
	return true
}

func sortAscending(bills []*entity.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		if bills[i].Timestamp.Equal(bills[j].Timestamp) {
			return bills[i].ID < bills[j].ID
		}
		return bills[i].Timestamp.Before(bills[j].Timestamp)
	})
}

func cloneBill(b *entity.Bill) *entity.Bill {
	c := *b
	c.Lines = append([]entity.LineItem(nil), b.Lines...)
	c.TaxBreakdown = make(map[entity.TaxCategory]decimal.Decimal, len(b.TaxBreakdown))
	for k, v := range b.TaxBreakdown {
		c.TaxBreakdown[k] = v
	}
	return &c
}
