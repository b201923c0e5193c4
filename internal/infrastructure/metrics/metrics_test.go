package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
)

func TestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.BillSaved(6.6)
	m.BillSaved(3.4)
	m.SaveFailed()
	m.InvoiceExported("pdf")
	m.InvoiceExported("pdf")
	m.SetDraftsOpen(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BillsFinalized))
	assert.InDelta(t, 10.0, testutil.ToFloat64(m.BillsTotalAmount), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SaveFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InvoicesExported.WithLabelValues("pdf")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DraftsOpen))
}

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.BillSaved(1)
		m.SaveFailed()
		m.InvoiceExported("text")
		m.SetDraftsOpen(0)
	})
}
