package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddLineRequest body para POST /api/drafts/:id/lines.
type AddLineRequest struct {
	Item     string `json:"item"` // nombre o código del ítem
	Quantity int    `json:"quantity"`
}

// CheckoutRequest body para POST /api/drafts/:id/checkout.
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// LineResponse línea de una cuenta.
type LineResponse struct {
	ItemName  string          `json:"item_name"`
	ItemCode  string          `json:"item_code,omitempty"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// TaxLineResponse impuesto de una categoría.
type TaxLineResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// DraftResponse cuenta abierta con sus totales provisionales.
type DraftResponse struct {
	ID           string            `json:"id"`
	State        string            `json:"state"`
	Lines        []LineResponse    `json:"lines"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	TaxBreakdown []TaxLineResponse `json:"tax_breakdown"`
	TaxTotal     decimal.Decimal   `json:"tax_total"`
	Total        decimal.Decimal   `json:"total"`
}

// BillResponse cuenta cerrada para GET /api/bills/:id.
type BillResponse struct {
	ID            string            `json:"id"`
	Number        string            `json:"number"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Lines         []LineResponse    `json:"lines"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxBreakdown  []TaxLineResponse `json:"tax_breakdown"`
	TaxTotal      decimal.Decimal   `json:"tax_total"`
	Total         decimal.Decimal   `json:"total"`
}

// BillListResponse listado de cuentas (búsqueda por fecha o historial).
type BillListResponse struct {
	Items []BillResponse `json:"items"`
	Count int            `json:"count"`
}
