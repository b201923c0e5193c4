package textinvoice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/textinvoice"
)

func TestRender(t *testing.T) {
	bill := storetest.NewBill("b1", "482913", storetest.BaseTime)
	bill.Lines[0].ItemName = "Vegetable Pakora con salsa de menta extra"

	out, err := textinvoice.New().Render(context.Background(), bill, invoice.Issuer{
		Name: "Bhojanalaya", Currency: "$", Locale: "en",
	})
	require.NoError(t, err)
	lines := strings.Split(string(out), "\n")

	assert.Equal(t, "---- RESTAURANT INVOICE ----", lines[0])
	assert.Equal(t, "Bhojanalaya", lines[1])
	assert.Contains(t, lines, "Bill No: 482913")
	assert.Contains(t, lines, "Date: 2026-01-15 12:00:00")
	assert.Contains(t, lines, "Customer: Ana")
	assert.Contains(t, lines, "Item                      Qty    Price      Amt")
	assert.Contains(t, lines, "Vegetable Pakora con sals   2    20.00    40.00", "el nombre se corta a 25 caracteres")
	assert.Contains(t, lines, "Noodles                     1    80.00    80.00")
	assert.Contains(t, lines, "Subtotal: $120.00")
	assert.Contains(t, lines, "Tax (hygiene): $8.00")
	assert.Contains(t, lines, "Tax (snacks): $2.00")
	assert.Contains(t, lines, "Total Tax: $10.00")
	assert.Contains(t, lines, "Grand Total: $130.00")

	// Los impuestos salen en orden de categoría.
	hy := strings.Index(string(out), "Tax (hygiene)")
	sn := strings.Index(string(out), "Tax (snacks)")
	assert.Less(t, hy, sn)
}

func TestRenderer_Metadata(t *testing.T) {
	r := textinvoice.New()
	assert.Equal(t, "text", r.Format())
	assert.Equal(t, "txt", r.Extension())
	assert.Contains(t, r.ContentType(), "text/plain")
}
