package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/history"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
)

func seeded(t *testing.T) *history.HistoryUseCase {
	t.Helper()
	store := memory.NewBillRepository()
	for i := 0; i < 5; i++ {
		b := storetest.NewBill(fmt.Sprintf("b%d", i), fmt.Sprintf("10000%d", i), storetest.BaseTime.AddDate(0, 0, i))
		require.NoError(t, store.Save(context.Background(), b))
	}
	return history.NewHistoryUseCase(store)
}

func TestSearch(t *testing.T) {
	uc := seeded(t)
	ctx := context.Background()

	from, to, err := history.ParseRange("2026-01-16", "2026-01-17")
	require.NoError(t, err)
	out, err := uc.Search(ctx, from, to)
	require.NoError(t, err)
	require.Equal(t, 2, out.Count, "to con solo fecha incluye el día")
	assert.Equal(t, "b1", out.Items[0].ID)
	assert.Equal(t, "b2", out.Items[1].ID)

	all, err := uc.Search(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 5, all.Count)

	_, err = uc.Search(ctx, storetest.BaseTime, storetest.BaseTime)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetAndRecent(t *testing.T) {
	uc := seeded(t)
	ctx := context.Background()

	b, err := uc.GetByNumber(ctx, " 100003 ")
	require.NoError(t, err)
	assert.Equal(t, "b3", b.ID)
	assert.True(t, b.Total.Equal(b.Subtotal.Add(b.TaxTotal)))

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recent, err := uc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, recent.Count)
	assert.Equal(t, "b4", recent.Items[0].ID)
}

func TestParseRange(t *testing.T) {
	from, to, err := history.ParseRange("2026-01-15T10:00:00-05:00", "")
	require.NoError(t, err)
	assert.True(t, from.Equal(time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)))
	assert.True(t, to.IsZero())

	_, _, err = history.ParseRange("ayer", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
