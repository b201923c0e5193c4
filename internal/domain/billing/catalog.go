package billing

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Catalog es el menú en memoria: nombre -> (precio, categoría de impuesto).
// Los nombres se comparan sin distinguir mayúsculas; los códigos, si existen, también son únicos.
type Catalog struct {
	mu     sync.RWMutex
	items  map[string]*entity.MenuItem
	byCode map[string]string // código -> llave de nombre
	taxes  TaxTable
}

// NewCatalog crea un menú vacío que solo acepta las categorías de taxes.
func NewCatalog(taxes TaxTable) *Catalog {
	if taxes == nil {
		taxes = DefaultTaxTable()
	}
	return &Catalog{
		items:  make(map[string]*entity.MenuItem),
		byCode: make(map[string]string),
		taxes:  taxes,
	}
}

// ItemPatch cambios parciales de un ítem; nil = no cambia.
type ItemPatch struct {
	Code      *string
	UnitPrice *decimal.Decimal
	Category  *entity.TaxCategory
}

func nameKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func codeKey(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// Taxes devuelve la tabla de tasas del menú.
func (c *Catalog) Taxes() TaxTable { return c.taxes }

// Add registra un ítem nuevo. ErrDuplicateKey si el nombre (o el código) ya existe.
func (c *Catalog) Add(item entity.MenuItem) (entity.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Code = codeKey(item.Code)
	if err := c.validate(item.Name, item.UnitPrice, item.Category); err != nil {
		return entity.MenuItem{}, err
	}
	item.UnitPrice = RoundCurrency(item.UnitPrice)

	c.mu.Lock()
	defer c.mu.Unlock()
	key := nameKey(item.Name)
	if _, ok := c.items[key]; ok {
		return entity.MenuItem{}, fmt.Errorf("%w: %s", domain.ErrDuplicateKey, item.Name)
	}
	if item.Code != "" {
		if _, ok := c.byCode[item.Code]; ok {
			return entity.MenuItem{}, fmt.Errorf("%w: código %s", domain.ErrDuplicateKey, item.Code)
		}
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}
	stored := item
	c.items[key] = &stored
	if item.Code != "" {
		c.byCode[item.Code] = key
	}
	return stored, nil
}

// Update modifica precio, categoría o código. ErrNotFound si el nombre no existe.
func (c *Catalog) Update(name string, patch ItemPatch) (entity.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := nameKey(name)
	cur, ok := c.items[key]
	if !ok {
		return entity.MenuItem{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	next := *cur
	if patch.UnitPrice != nil {
		next.UnitPrice = *patch.UnitPrice
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if err := c.validate(next.Name, next.UnitPrice, next.Category); err != nil {
		return entity.MenuItem{}, err
	}
	next.UnitPrice = RoundCurrency(next.UnitPrice)
	if patch.Code != nil {
		code := codeKey(*patch.Code)
		if owner, taken := c.byCode[code]; code != "" && taken && owner != key {
			return entity.MenuItem{}, fmt.Errorf("%w: código %s", domain.ErrDuplicateKey, code)
		}
		delete(c.byCode, cur.Code)
		next.Code = code
		if code != "" {
			c.byCode[code] = key
		}
	}
	next.UpdatedAt = time.Now().UTC()
	c.items[key] = &next
	return next, nil
}

// Remove elimina un ítem del menú. ErrNotFound si no existe.
func (c *Catalog) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := nameKey(name)
	cur, ok := c.items[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	delete(c.items, key)
	if cur.Code != "" {
		delete(c.byCode, cur.Code)
	}
	return nil
}

// Lookup busca por nombre y, si no hay coincidencia, por código. Devuelve una copia.
func (c *Catalog) Lookup(name string) (entity.MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if it, ok := c.items[nameKey(name)]; ok {
		return *it, nil
	}
	if key, ok := c.byCode[codeKey(name)]; ok {
		return *c.items[key], nil
	}
	return entity.MenuItem{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
}

// List devuelve el menú ordenado por código y luego por nombre.
func (c *Catalog) List() []entity.MenuItem {
	c.mu.RLock()
	out := make([]entity.MenuItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len número de ítems del menú.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Catalog) validate(name string, price decimal.Decimal, cat entity.TaxCategory) error {
	if name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if _, ok := c.taxes.Rate(cat); !ok {
		return fmt.Errorf("%w: categoría de impuesto desconocida %q", domain.ErrInvalidInput, cat)
	}
	return nil
}
