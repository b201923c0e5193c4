// Package storetest contiene las pruebas de contrato que debe cumplir cualquier
// adaptador de repository.BillRepository y repository.MenuRepository.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
)

// BaseTime instante fijo de referencia para las cuentas de prueba.
var BaseTime = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// NewBill construye una cuenta válida (totales calculados con DefaultTaxTable).
func NewBill(id, number string, ts time.Time) *entity.Bill {
	lines := []entity.LineItem{
		{ItemName: "Samosa", ItemCode: "S01", Category: entity.TaxSnacks,
			UnitPrice: decimal.RequireFromString("20.00"), Quantity: 2, Amount: decimal.RequireFromString("40.00")},
		{ItemName: "Noodles", ItemCode: "H01", Category: entity.TaxHygiene,
			UnitPrice: decimal.RequireFromString("80.00"), Quantity: 1, Amount: decimal.RequireFromString("80.00")},
	}
	tot := billing.ComputeTotals(lines, billing.DefaultTaxTable())
	return &entity.Bill{
		ID:            id,
		Number:        number,
		CustomerName:  "Ana",
		CustomerPhone: "3001234567",
		Timestamp:     ts.UTC().Truncate(time.Microsecond),
		Lines:         lines,
		Subtotal:      tot.Subtotal,
		TaxBreakdown:  tot.TaxBreakdown,
		TaxTotal:      tot.TaxTotal,
		Total:         tot.Total,
	}
}

// AssertBillEqual compara dos cuentas por valor (montos con decimal.Equal).
func AssertBillEqual(t *testing.T, want, got *entity.Bill) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Number, got.Number)
	assert.Equal(t, want.CustomerName, got.CustomerName)
	assert.Equal(t, want.CustomerPhone, got.CustomerPhone)
	assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp %v != %v", want.Timestamp, got.Timestamp)
	assert.True(t, want.Subtotal.Equal(got.Subtotal), "subtotal")
	assert.True(t, want.TaxTotal.Equal(got.TaxTotal), "tax total")
	assert.True(t, want.Total.Equal(got.Total), "total")
	require.Len(t, got.Lines, len(want.Lines))
	for i := range want.Lines {
		w, g := want.Lines[i], got.Lines[i]
		assert.Equal(t, w.ItemName, g.ItemName)
		assert.Equal(t, w.ItemCode, g.ItemCode)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Quantity, g.Quantity)
		assert.True(t, w.UnitPrice.Equal(g.UnitPrice), "unit price línea %d", i)
		assert.True(t, w.Amount.Equal(g.Amount), "amount línea %d", i)
	}
	require.Len(t, got.TaxBreakdown, len(want.TaxBreakdown))
	for cat, v := range want.TaxBreakdown {
		assert.True(t, v.Equal(got.TaxBreakdown[cat]), "impuesto %s", cat)
	}
}

func collect(t *testing.T, repo repository.BillRepository, from, to time.Time) []*entity.Bill {
	t.Helper()
	var out []*entity.Bill
	for b, err := range repo.Query(context.Background(), from, to) {
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

// RunBillRepository ejecuta el contrato sobre repositorios nuevos creados por newRepo.
func RunBillRepository(t *testing.T, newRepo func(t *testing.T) repository.BillRepository) {
	ctx := context.Background()

	t.Run("Save y GetByID devuelven la misma cuenta", func(t *testing.T) {
		repo := newRepo(t)
		bill := NewBill("bill-1", "100001", BaseTime.Add(123456789*time.Nanosecond))
		require.NoError(t, repo.Save(ctx, bill))

		got, err := repo.GetByID(ctx, "bill-1")
		require.NoError(t, err)
		AssertBillEqual(t, bill, got)

		byNumber, err := repo.GetByNumber(ctx, "100001")
		require.NoError(t, err)
		AssertBillEqual(t, bill, byNumber)
	})

	t.Run("ID o número duplicado", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, NewBill("bill-1", "100001", BaseTime)))
		assert.ErrorIs(t, repo.Save(ctx, NewBill("bill-1", "100002", BaseTime)), domain.ErrDuplicateID)
		assert.ErrorIs(t, repo.Save(ctx, NewBill("bill-2", "100001", BaseTime)), domain.ErrDuplicateID)
		assert.NoError(t, repo.Save(ctx, NewBill("bill-3", "", BaseTime)))
		assert.NoError(t, repo.Save(ctx, NewBill("bill-4", "", BaseTime)), "número vacío no colisiona")
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = repo.GetByNumber(ctx, "999999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Query filtra por rango y ordena ascendente", func(t *testing.T) {
		repo := newRepo(t)
		// Se insertan desordenadas a propósito.
		for _, i := range []int{3, 0, 4, 1, 2} {
			id := fmt.Sprintf("bill-%d", i)
			require.NoError(t, repo.Save(ctx, NewBill(id, "", BaseTime.Add(time.Duration(i)*time.Hour))))
		}

		got := collect(t, repo, BaseTime.Add(time.Hour), BaseTime.Add(3*time.Hour))
		require.Len(t, got, 2, "el rango es [from, to)")
		assert.Equal(t, "bill-1", got[0].ID)
		assert.Equal(t, "bill-2", got[1].ID)

		all := collect(t, repo, time.Time{}, time.Time{})
		require.Len(t, all, 5)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].Timestamp.Before(all[i-1].Timestamp))
		}

		assert.Empty(t, collect(t, repo, BaseTime.Add(10*time.Hour), time.Time{}))
	})

	t.Run("Query con límites lejanos", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, NewBill("bill-1", "", BaseTime)))

		farPast := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
		farFuture := time.Date(2999, 12, 31, 0, 0, 0, 0, time.UTC)
		assert.Len(t, collect(t, repo, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), farFuture), 1)
		assert.Len(t, collect(t, repo, farPast, time.Time{}), 1)
		assert.Len(t, collect(t, repo, time.Time{}, farFuture), 1)
		assert.Empty(t, collect(t, repo, farPast, time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Query es reiniciable y refleja el estado actual", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, NewBill("a", "", BaseTime)))
		seq := repo.Query(ctx, BaseTime, BaseTime.Add(24*time.Hour))

		count := func() int {
			n := 0
			for _, err := range seq {
				require.NoError(t, err)
				n++
			}
			return n
		}
		assert.Equal(t, 1, count())
		require.NoError(t, repo.Save(ctx, NewBill("b", "", BaseTime.Add(time.Minute))))
		assert.Equal(t, 2, count(), "un nuevo recorrido ve la cuenta recién guardada")

		// Cortar el recorrido antes de terminar no debe dejar recursos tomados.
		for range seq {
			break
		}
		require.NoError(t, repo.Save(ctx, NewBill("c", "", BaseTime.Add(2*time.Minute))))
		assert.Equal(t, 3, count())
	})

	t.Run("ListRecent devuelve la más reciente primero", func(t *testing.T) {
		repo := newRepo(t)
		for i := 0; i < 4; i++ {
			id := fmt.Sprintf("bill-%d", i)
			require.NoError(t, repo.Save(ctx, NewBill(id, "", BaseTime.Add(time.Duration(i)*time.Minute))))
		}
		got, err := repo.ListRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"bill-3", "bill-2", "bill-1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	})
}

// RunMenuRepository ejecuta el contrato del repositorio de menú.
func RunMenuRepository(t *testing.T, newRepo func(t *testing.T) repository.MenuRepository) {
	ctx := context.Background()
	item := func(name, code, price string, cat entity.TaxCategory) *entity.MenuItem {
		return &entity.MenuItem{
			Code: code, Name: name, UnitPrice: decimal.RequireFromString(price), Category: cat,
			CreatedAt: BaseTime, UpdatedAt: BaseTime,
		}
	}

	t.Run("CRUD", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, item("Samosa", "S01", "20.00", entity.TaxSnacks)))
		require.NoError(t, repo.Create(ctx, item("Pasta", "", "120.00", entity.TaxGrocery)))
		assert.ErrorIs(t, repo.Create(ctx, item("samosa", "", "1.00", entity.TaxSnacks)), domain.ErrDuplicateKey)

		got, err := repo.GetByName(ctx, "SAMOSA")
		require.NoError(t, err)
		assert.Equal(t, "Samosa", got.Name)
		assert.Equal(t, "S01", got.Code)
		assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(20)))
		assert.True(t, got.CreatedAt.Equal(BaseTime))

		upd := item("Samosa", "S01", "25.00", entity.TaxGrocery)
		upd.UpdatedAt = BaseTime.Add(time.Hour)
		require.NoError(t, repo.Update(ctx, upd))
		got, err = repo.GetByName(ctx, "Samosa")
		require.NoError(t, err)
		assert.Equal(t, entity.TaxGrocery, got.Category)
		assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(25)))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Pasta", list[0].Name)

		require.NoError(t, repo.Delete(ctx, "samosa"))
		_, err = repo.GetByName(ctx, "Samosa")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "Samosa"), domain.ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, upd), domain.ErrNotFound)
	})
}
