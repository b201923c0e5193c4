package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem representa un plato o producto del menú. Name es la llave única.
// Code es el código corto que usa caja (ej. "S01"); es opcional.
type MenuItem struct {
	Code      string
	Name      string
	UnitPrice decimal.Decimal
	Category  TaxCategory
	CreatedAt time.Time
	UpdatedAt time.Time
}
