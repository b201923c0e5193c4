// Package metrics expone contadores Prometheus del mostrador de facturación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contadores usados por los casos de uso. Un valor nil se ignora.
type Metrics struct {
	BillsFinalized   prometheus.Counter
	BillsTotalAmount prometheus.Counter
	SaveFailures     prometheus.Counter
	InvoicesExported *prometheus.CounterVec
	DraftsOpen       prometheus.Gauge
}

// New registra los contadores en reg. Pasar prometheus.NewRegistry() en tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BillsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "bills_finalized_total",
			Help:      "Cuentas cerradas y guardadas.",
		}),
		BillsTotalAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "bills_amount_total",
			Help:      "Suma de los totales de las cuentas guardadas.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "bill_save_failures_total",
			Help:      "Errores al guardar una cuenta cerrada.",
		}),
		InvoicesExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "invoices_exported_total",
			Help:      "Facturas exportadas por formato.",
		}, []string{"format"}),
		DraftsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "billing",
			Name:      "drafts_open",
			Help:      "Cuentas abiertas en el mostrador.",
		}),
	}
	reg.MustRegister(m.BillsFinalized, m.BillsTotalAmount, m.SaveFailures, m.InvoicesExported, m.DraftsOpen)
	return m
}

// BillSaved registra una cuenta guardada con su total.
func (m *Metrics) BillSaved(total float64) {
	if m == nil {
		return
	}
	m.BillsFinalized.Inc()
	m.BillsTotalAmount.Add(total)
}

// SaveFailed registra un error de persistencia.
func (m *Metrics) SaveFailed() {
	if m == nil {
		return
	}
	m.SaveFailures.Inc()
}

// InvoiceExported registra una exportación.
func (m *Metrics) InvoiceExported(format string) {
	if m == nil {
		return
	}
	m.InvoicesExported.WithLabelValues(format).Inc()
}

// SetDraftsOpen actualiza el gauge de cuentas abiertas.
func (m *Metrics) SetDraftsOpen(n int) {
	if m == nil {
		return
	}
	m.DraftsOpen.Set(float64(n))
}
