package billing

import (
	"sort"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CurrencyPlaces precisión de la moneda (centavos).
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// TaxTable tasa de impuesto por categoría, como fracción (0.05 = 5%).
type TaxTable map[entity.TaxCategory]decimal.Decimal

// DefaultTaxTable tasas con las que opera el restaurante si no se configuran otras.
func DefaultTaxTable() TaxTable {
	return TaxTable{
		entity.TaxSnacks:  decimal.RequireFromString("0.05"),
		entity.TaxGrocery: decimal.RequireFromString("0.01"),
		entity.TaxHygiene: decimal.RequireFromString("0.10"),
	}
}

// Rate devuelve la tasa de la categoría y si está configurada.
func (t TaxTable) Rate(c entity.TaxCategory) (decimal.Decimal, bool) {
	r, ok := t[c]
	return r, ok
}

// Categories devuelve las categorías configuradas en orden alfabético.
func (t TaxTable) Categories() []entity.TaxCategory {
	out := make([]entity.TaxCategory, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NormalizeRate acepta la tasa como porcentaje (5) o fracción (0.05) y devuelve la fracción.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(hundred)
	}
	return rate
}

// RoundCurrency redondea a centavos, mitad hacia arriba (montos no negativos).
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Totals resultado determinista del cálculo de una cuenta.
type Totals struct {
	Subtotal          decimal.Decimal
	CategorySubtotals map[entity.TaxCategory]decimal.Decimal
	TaxBreakdown      map[entity.TaxCategory]decimal.Decimal
	TaxTotal          decimal.Decimal
	Total             decimal.Decimal
}

// ComputeTotals calcula subtotal, impuesto por categoría y total.
// El impuesto se aplica sobre el subtotal de cada categoría y se redondea por categoría;
// una categoría sin tasa configurada tributa 0.
func ComputeTotals(lines []entity.LineItem, taxes TaxTable) Totals {
	t := Totals{
		Subtotal:          decimal.Zero,
		CategorySubtotals: make(map[entity.TaxCategory]decimal.Decimal),
		TaxBreakdown:      make(map[entity.TaxCategory]decimal.Decimal),
		TaxTotal:          decimal.Zero,
	}
	for _, l := range lines {
		amount := LineAmount(l.UnitPrice, l.Quantity)
		t.Subtotal = t.Subtotal.Add(amount)
		t.CategorySubtotals[l.Category] = t.CategorySubtotals[l.Category].Add(amount)
	}
	for cat, sub := range t.CategorySubtotals {
		rate, _ := taxes.Rate(cat)
		tax := RoundCurrency(sub.Mul(rate))
		t.CategorySubtotals[cat] = RoundCurrency(sub)
		t.TaxBreakdown[cat] = tax
		t.TaxTotal = t.TaxTotal.Add(tax)
	}
	t.Subtotal = RoundCurrency(t.Subtotal)
	t.TaxTotal = RoundCurrency(t.TaxTotal)
	t.Total = RoundCurrency(t.Subtotal.Add(t.TaxTotal))
	return t
}

// LineAmount importe de una línea: precio unitario × cantidad.
func LineAmount(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return RoundCurrency(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
}
