// Package textinvoice genera la factura en texto plano de ancho fijo (impresora térmica).
package textinvoice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

const (
	width    = 40
	nameCols = 25
)

var _ invoice.Renderer = (*Renderer)(nil)

// Renderer implementa invoice.Renderer en texto.
type Renderer struct{}

// New construye el renderer.
func New() *Renderer { return &Renderer{} }

func (*Renderer) Format() string      { return "text" }
func (*Renderer) ContentType() string { return "text/plain; charset=utf-8" }
func (*Renderer) Extension() string   { return "txt" }

// Render arma la factura línea por línea.
func (*Renderer) Render(_ context.Context, bill *entity.Bill, issuer invoice.Issuer) ([]byte, error) {
	money := invoice.NewMoneyFormatter(issuer)
	sep := strings.Repeat("-", width)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("---- RESTAURANT INVOICE ----")
	if issuer.Name != "" {
		line("%s", issuer.Name)
	}
	if issuer.Address != "" {
		line("%s", issuer.Address)
	}
	if issuer.Phone != "" {
		line("Tel: %s", issuer.Phone)
	}
	line("Bill No: %s", bill.Number)
	line("Date: %s", bill.Timestamp.UTC().Format(time.DateTime))
	line("Customer: %s", bill.CustomerName)
	line("Phone: %s", bill.CustomerPhone)
	line("%s", sep)
	line("%-25s%4s%9s%9s", "Item", "Qty", "Price", "Amt")
	line("%s", sep)
	for _, l := range bill.Lines {
		line("%-25s%4d%9s%9s", truncate(l.ItemName, nameCols), l.Quantity,
			l.UnitPrice.StringFixed(2), l.Amount.StringFixed(2))
	}
	line("%s", sep)
	line("Subtotal: %s", money.Format(bill.Subtotal))
	for _, cat := range sortedCategories(bill.TaxBreakdown) {
		line("Tax (%s): %s", cat, money.Format(bill.TaxBreakdown[cat]))
	}
	line("Total Tax: %s", money.Format(bill.TaxTotal))
	line("Grand Total: %s", money.Format(bill.Total))
	b.WriteString(sep)
	return []byte(b.String()), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sortedCategories[V any](m map[entity.TaxCategory]V) []entity.TaxCategory {
	out := make([]entity.TaxCategory, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
