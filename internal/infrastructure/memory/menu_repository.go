package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo menú en memoria indexado por nombre (sin distinguir mayúsculas).
type MenuRepo struct {
	mu    sync.RWMutex
	items map[string]entity.MenuItem
}

// NewMenuRepository crea el repositorio vacío.
func NewMenuRepository() *MenuRepo {
	return &MenuRepo{items: make(map[string]entity.MenuItem)}
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (r *MenuRepo) Create(_ context.Context, item *entity.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(item.Name)
	if _, ok := r.items[k]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, item.Name)
	}
	r.items[k] = *item
	return nil
}

func (r *MenuRepo) GetByName(_ context.Context, name string) (*entity.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return &it, nil
}

func (r *MenuRepo) Update(_ context.Context, item *entity.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(item.Name)
	if _, ok := r.items[k]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, item.Name)
	}
	r.items[k] = *item
	return nil
}

func (r *MenuRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(name)
	if _, ok := r.items[k]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	delete(r.items, k)
	return nil
}

func (r *MenuRepo) List(_ context.Context) ([]*entity.MenuItem, error) {
	r.mu.RLock()
	out := make([]*entity.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		it := it
		out = append(out, &it)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
