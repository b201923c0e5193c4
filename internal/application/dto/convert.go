package dto

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// FromLines convierte líneas del dominio.
func FromLines(lines []entity.LineItem) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineResponse{
			ItemName:  l.ItemName,
			ItemCode:  l.ItemCode,
			Category:  l.Category.String(),
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Amount:    l.Amount,
		})
	}
	return out
}

// FromTaxBreakdown ordena el desglose por categoría.
func FromTaxBreakdown(taxes map[entity.TaxCategory]decimal.Decimal) []TaxLineResponse {
	out := make([]TaxLineResponse, 0, len(taxes))
	for cat, amt := range taxes {
		out = append(out, TaxLineResponse{Category: cat.String(), Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// FromBill convierte una cuenta cerrada.
func FromBill(b *entity.Bill) BillResponse {
	return BillResponse{
		ID:            b.ID,
		Number:        b.Number,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Timestamp:     b.Timestamp,
		Lines:         FromLines(b.Lines),
		Subtotal:      b.Subtotal,
		TaxBreakdown:  FromTaxBreakdown(b.TaxBreakdown),
		TaxTotal:      b.TaxTotal,
		Total:         b.Total,
	}
}
