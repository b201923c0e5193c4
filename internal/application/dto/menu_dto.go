package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMenuItemRequest body para POST /api/menu.
type CreateMenuItemRequest struct {
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
}

// UpdateMenuItemRequest body para PUT /api/menu/:name. Campos ausentes no cambian.
type UpdateMenuItemRequest struct {
	Code      *string          `json:"code,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Category  *string          `json:"category,omitempty"`
}

// MenuItemResponse ítem del menú en respuestas.
type MenuItemResponse struct {
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}
