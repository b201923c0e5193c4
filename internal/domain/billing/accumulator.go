package billing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// State ciclo de vida de una cuenta en curso.
type State int

const (
	StateEmpty State = iota
	StateInProgress
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInProgress:
		return "in_progress"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// ItemResolver resuelve un ítem del menú por nombre (o código). *Catalog lo implementa.
type ItemResolver interface {
	Lookup(name string) (entity.MenuItem, error)
}

// Header datos de cabecera que se fijan al cerrar la cuenta.
// ID vacío genera un UUID; Timestamp en cero usa la hora actual.
type Header struct {
	ID        string
	Number    string
	Customer  entity.Customer
	Timestamp time.Time
}

type draftLine struct {
	item entity.MenuItem
	qty  int
}

// Accumulator acumula las líneas de una sola transacción y calcula sus totales.
// No es seguro para uso concurrente: cada cuenta en curso tiene su propio acumulador.
type Accumulator struct {
	resolver  ItemResolver
	taxes     TaxTable
	lines     []draftLine
	finalized bool
}

// NewAccumulator crea un acumulador vacío.
func NewAccumulator(resolver ItemResolver, taxes TaxTable) *Accumulator {
	if taxes == nil {
		taxes = DefaultTaxTable()
	}
	return &Accumulator{resolver: resolver, taxes: taxes}
}

// Start inicia una cuenta nueva y vacía, descartando cualquier estado previo.
func (a *Accumulator) Start() {
	a.lines = nil
	a.finalized = false
}

// State estado actual del acumulador.
func (a *Accumulator) State() State {
	switch {
	case a.finalized:
		return StateFinalized
	case len(a.lines) == 0:
		return StateEmpty
	default:
		return StateInProgress
	}
}

// AddLine agrega qty unidades del ítem. Si el ítem ya está en la cuenta suma la cantidad.
func (a *Accumulator) AddLine(name string, qty int) error {
	if a.finalized {
		return domain.ErrBillFinalized
	}
	if qty < 1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}
	item, err := a.resolver.Lookup(name)
	if err != nil {
		return err
	}
	if i := a.indexOf(item.Name); i >= 0 {
		if a.lines[i].qty > math.MaxInt-qty {
			return fmt.Errorf("%w: %d + %d excede el máximo", domain.ErrInvalidQuantity, a.lines[i].qty, qty)
		}
		a.lines[i].item = item
		a.lines[i].qty += qty
		return nil
	}
	a.lines = append(a.lines, draftLine{item: item, qty: qty})
	return nil
}

// RemoveLine quita la línea del ítem. ErrNotFound si no está en la cuenta.
func (a *Accumulator) RemoveLine(name string) error {
	if a.finalized {
		return domain.ErrBillFinalized
	}
	i := a.indexOf(name)
	if i < 0 {
		if item, err := a.resolver.Lookup(name); err == nil {
			i = a.indexOf(item.Name)
		}
	}
	if i < 0 {
		return fmt.Errorf("%w: %s no está en la cuenta", domain.ErrNotFound, name)
	}
	a.lines = append(a.lines[:i], a.lines[i+1:]...)
	return nil
}

// Clear quita todas las líneas.
func (a *Accumulator) Clear() error {
	if a.finalized {
		return domain.ErrBillFinalized
	}
	a.lines = nil
	return nil
}

// Lines devuelve las líneas actuales con su importe.
func (a *Accumulator) Lines() []entity.LineItem {
	out := make([]entity.LineItem, 0, len(a.lines))
	for _, l := range a.lines {
		out = append(out, toLineItem(l.item, l.qty))
	}
	return out
}

// Compute calcula subtotal, impuestos por categoría y total de las líneas actuales.
func (a *Accumulator) Compute() Totals {
	return ComputeTotals(a.Lines(), a.taxes)
}

// Finalize congela la cuenta en un Bill inmutable. Cada línea se resuelve de nuevo
// contra el menú: el Bill guarda los valores vigentes al cierre.
func (a *Accumulator) Finalize(h Header) (*entity.Bill, error) {
	if a.finalized {
		return nil, domain.ErrBillFinalized
	}
	if len(a.lines) == 0 {
		return nil, domain.ErrEmptyBill
	}
	lines := make([]entity.LineItem, 0, len(a.lines))
	for _, l := range a.lines {
		item, err := a.resolver.Lookup(l.item.Name)
		if err != nil {
			return nil, err
		}
		lines = append(lines, toLineItem(item, l.qty))
	}
	totals := ComputeTotals(lines, a.taxes)

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	ts := h.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	bill := &entity.Bill{
		ID:            h.ID,
		Number:        h.Number,
		CustomerName:  strings.TrimSpace(h.Customer.Name),
		CustomerPhone: strings.TrimSpace(h.Customer.Phone),
		Timestamp:     ts.UTC().Truncate(time.Microsecond),
		Lines:         lines,
		Subtotal:      totals.Subtotal,
		TaxBreakdown:  totals.TaxBreakdown,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.Total,
	}
	a.finalized = true
	return bill, nil
}

func (a *Accumulator) indexOf(name string) int {
	key := nameKey(name)
	for i, l := range a.lines {
		if nameKey(l.item.Name) == key {
			return i
		}
	}
	return -1
}

func toLineItem(item entity.MenuItem, qty int) entity.LineItem {
	return entity.LineItem{
		ItemName:  item.Name,
		ItemCode:  item.Code,
		Category:  item.Category,
		UnitPrice: item.UnitPrice,
		Quantity:  qty,
		Amount:    LineAmount(item.UnitPrice, qty),
	}
}

// CheckInvariants verifica Total = Subtotal + impuestos y Subtotal = suma de líneas.
func CheckInvariants(b *entity.Bill) error {
	sub := decimal.Zero
	for _, l := range b.Lines {
		sub = sub.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if !sub.Equal(b.Subtotal) {
		return fmt.Errorf("subtotal %s != suma de líneas %s", b.Subtotal, sub)
	}
	tax := decimal.Zero
	for _, v := range b.TaxBreakdown {
		tax = tax.Add(v)
	}
	if !tax.Equal(b.TaxTotal) {
		return fmt.Errorf("impuesto total %s != suma por categoría %s", b.TaxTotal, tax)
	}
	if !b.Subtotal.Add(tax).Equal(b.Total) {
		return fmt.Errorf("total %s != subtotal + impuestos %s", b.Total, b.Subtotal.Add(tax))
	}
	return nil
}
