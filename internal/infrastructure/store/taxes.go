package store

import (
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/pkg/config"
)

// TaxTable construye la tabla de impuestos desde la configuración del restaurante.
// Sin tasas configuradas se usan las del restaurante por defecto.
func TaxTable(cfg config.RestaurantConfig) billing.TaxTable {
	if len(cfg.TaxRates) == 0 {
		return billing.DefaultTaxTable()
	}
	t := make(billing.TaxTable, len(cfg.TaxRates))
	for name, rate := range cfg.TaxRates {
		t[entity.ParseTaxCategory(name)] = billing.NormalizeRate(rate)
	}
	return t
}
