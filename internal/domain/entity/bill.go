package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem es la foto de un ítem del menú dentro de una cuenta (precio y categoría
// al momento del cierre). Cambios posteriores al menú no la alteran.
type LineItem struct {
	ItemName  string          `json:"item_name"`
	ItemCode  string          `json:"item_code,omitempty"`
	Category  TaxCategory     `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// Bill es una cuenta cerrada. Inmutable: una corrección requiere una cuenta nueva.
// Total = Subtotal + suma(TaxBreakdown); TaxTotal = suma(TaxBreakdown).
type Bill struct {
	ID            string
	Number        string // número de cuenta visible al cliente (6 dígitos)
	CustomerName  string
	CustomerPhone string
	Timestamp     time.Time
	Lines         []LineItem
	Subtotal      decimal.Decimal
	TaxBreakdown  map[TaxCategory]decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
}

// Customer datos del cliente que se imprimen en la factura.
type Customer struct {
	Name  string
	Phone string
}
