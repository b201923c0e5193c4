// Package billcodec serializa las líneas y el desglose de impuestos de una cuenta
// a las columnas JSON que comparten los adaptadores SQL.
package billcodec

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type lineRecord struct {
	ItemName  string `json:"name"`
	ItemCode  string `json:"code,omitempty"`
	Category  string `json:"category"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"qty"`
	Amount    string `json:"amount"`
}

// Money formatea un monto con la precisión de la moneda ("6.60").
func Money(d decimal.Decimal) string {
	return d.StringFixed(billing.CurrencyPlaces)
}

// ParseMoney lee un monto guardado con Money.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q: %w", s, err)
	}
	return d, nil
}

// EncodeLines serializa las líneas en el orden de la cuenta.
func EncodeLines(lines []entity.LineItem) ([]byte, error) {
	recs := make([]lineRecord, 0, len(lines))
	for _, l := range lines {
		recs = append(recs, lineRecord{
			ItemName:  l.ItemName,
			ItemCode:  l.ItemCode,
			Category:  string(l.Category),
			UnitPrice: Money(l.UnitPrice),
			Quantity:  l.Quantity,
			Amount:    Money(l.Amount),
		})
	}
	return json.Marshal(recs)
}

// DecodeLines es la inversa de EncodeLines.
func DecodeLines(data []byte) ([]entity.LineItem, error) {
	var recs []lineRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decodificar líneas: %w", err)
	}
	out := make([]entity.LineItem, 0, len(recs))
	for _, r := range recs {
		price, err := ParseMoney(r.UnitPrice)
		if err != nil {
			return nil, err
		}
		amount, err := ParseMoney(r.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.LineItem{
			ItemName:  r.ItemName,
			ItemCode:  r.ItemCode,
			Category:  entity.TaxCategory(r.Category),
			UnitPrice: price,
			Quantity:  r.Quantity,
			Amount:    amount,
		})
	}
	return out, nil
}

// EncodeTaxes serializa el desglose categoría -> impuesto.
func EncodeTaxes(taxes map[entity.TaxCategory]decimal.Decimal) ([]byte, error) {
	m := make(map[string]string, len(taxes))
	for k, v := range taxes {
		m[string(k)] = Money(v)
	}
	return json.Marshal(m)
}

// DecodeTaxes es la inversa de EncodeTaxes.
func DecodeTaxes(data []byte) (map[entity.TaxCategory]decimal.Decimal, error) {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decodificar impuestos: %w", err)
	}
	out := make(map[entity.TaxCategory]decimal.Decimal, len(m))
	for k, v := range m {
		d, err := ParseMoney(v)
		if err != nil {
			return nil, err
		}
		out[entity.TaxCategory(k)] = d
	}
	return out, nil
}
