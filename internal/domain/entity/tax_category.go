package entity

import "strings"

// TaxCategory clasifica un ítem del menú y determina su tasa de impuesto.
type TaxCategory string

// Categorías de impuesto por defecto (tasas en billing.DefaultTaxTable).
const (
	TaxSnacks  TaxCategory = "snacks"
	TaxGrocery TaxCategory = "grocery"
	TaxHygiene TaxCategory = "hygiene"
)

// ParseTaxCategory normaliza el nombre de una categoría (minúsculas, sin espacios).
func ParseTaxCategory(s string) TaxCategory {
	return TaxCategory(strings.ToLower(strings.TrimSpace(s)))
}

func (c TaxCategory) String() string { return string(c) }
