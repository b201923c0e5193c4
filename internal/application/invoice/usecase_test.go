package invoice_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/textinvoice"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/xmlinvoice"
)

func setup(t *testing.T) (*invoice.ExportUseCase, *metrics.Metrics) {
	t.Helper()
	store := memory.NewBillRepository()
	require.NoError(t, store.Save(context.Background(), storetest.NewBill("b1", "482913", storetest.BaseTime)))
	require.NoError(t, store.Save(context.Background(), storetest.NewBill("b2", "", storetest.BaseTime)))
	m := metrics.New(prometheus.NewRegistry())
	uc := invoice.NewExportUseCase(store, invoice.Issuer{Name: "Bhojanalaya", Currency: "$"}, nil, m,
		textinvoice.New(), xmlinvoice.New())
	return uc, m
}

func TestExport(t *testing.T) {
	uc, m := setup(t)
	ctx := context.Background()

	doc, err := uc.Export(ctx, "b1", "TEXT")
	require.NoError(t, err)
	assert.Equal(t, "invoice_482913.txt", doc.Filename)
	assert.Contains(t, doc.ContentType, "text/plain")
	assert.Contains(t, string(doc.Content), "Grand Total: $130.00")

	doc, err = uc.Export(ctx, "b2", "xml")
	require.NoError(t, err)
	assert.Equal(t, "invoice_b2.xml", doc.Filename, "sin número se usa el id")
	require.NoError(t, xmlinvoice.Verify(doc.Content))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesExported.WithLabelValues("text")))
	assert.Equal(t, []string{"text", "xml"}, uc.Formats())
}

func TestExport_Errores(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Export(ctx, "b1", "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Export(ctx, "b1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pdf por defecto, no registrado en este test")

	_, err = uc.Export(ctx, "nope", "text")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMoneyFormatter(t *testing.T) {
	en := invoice.NewMoneyFormatter(invoice.Issuer{Currency: "$", Locale: "en"})
	assert.Equal(t, "$6.60", en.Format(decimal.RequireFromString("6.6")))
	assert.Equal(t, "$1,234.50", en.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.13", en.Number(decimal.RequireFromString("0.125")))

	bad := invoice.NewMoneyFormatter(invoice.Issuer{Locale: "!!"})
	assert.Equal(t, "2.00", bad.Number(decimal.NewFromInt(2)))
}
