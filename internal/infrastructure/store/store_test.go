package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/store"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
	"github.com/jhoicas/restaurant-billing/pkg/config"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

func TestOpen_SQLiteYMemoria(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{config.StoreSQLite, config.StoreMemory} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{
				Driver:     driver,
				SQLitePath: filepath.Join(t.TempDir(), "bills.db"),
			}}
			s, err := store.Open(ctx, cfg, logger.Nop())
			require.NoError(t, err)
			t.Cleanup(s.Close)

			b := storetest.NewBill("id-1", "123456", storetest.BaseTime)
			require.NoError(t, s.Bills.Save(ctx, b))
			got, err := s.Bills.GetByNumber(ctx, "123456")
			require.NoError(t, err)
			storetest.AssertBillEqual(t, b, got)
		})
	}
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}}, logger.Nop())
	assert.Error(t, err)
}

func TestTaxTable(t *testing.T) {
	tbl := store.TaxTable(config.RestaurantConfig{TaxRates: map[string]decimal.Decimal{
		"Snacks": decimal.NewFromInt(5),
		"drinks": decimal.RequireFromString("0.12"),
	}})
	rate, ok := tbl.Rate(entity.TaxSnacks)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.05")))
	rate, ok = tbl.Rate(entity.ParseTaxCategory("drinks"))
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.12")))

	assert.Len(t, store.TaxTable(config.RestaurantConfig{}), 3)
}
