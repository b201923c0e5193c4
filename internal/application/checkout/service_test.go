package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/checkout"
	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
)

var fixedNow = time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)

func newCatalog(t *testing.T) *billing.Catalog {
	t.Helper()
	c := billing.NewCatalog(nil)
	for _, it := range []entity.MenuItem{
		{Code: "S01", Name: "Samosa", UnitPrice: decimal.NewFromInt(20), Category: entity.TaxSnacks},
		{Code: "M02", Name: "Pasta", UnitPrice: decimal.NewFromInt(120), Category: entity.TaxGrocery},
		{Code: "H01", Name: "Noodles", UnitPrice: decimal.NewFromInt(80), Category: entity.TaxHygiene},
	} {
		_, err := c.Add(it)
		require.NoError(t, err)
	}
	return c
}

func sequence(numbers ...string) checkout.NumberGenerator {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n := numbers[i%len(numbers)]
		i++
		return n
	}
}

// flakyStore falla los primeros n guardados con err.
type flakyStore struct {
	*memory.BillRepo
	fails int
	err   error
}

func (f *flakyStore) Save(ctx context.Context, b *entity.Bill) error {
	if f.fails > 0 {
		f.fails--
		return f.err
	}
	return f.BillRepo.Save(ctx, b)
}

func TestCheckout_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillRepository()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := checkout.NewService(newCatalog(t), store, nil,
		checkout.WithNumberGenerator(sequence("123456")),
		checkout.WithMetrics(m),
		checkout.WithClock(func() time.Time { return fixedNow }),
	)

	d := svc.Open()
	assert.Equal(t, "empty", d.State)

	_, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "Samosa", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddLine(d.ID, dto.AddLineRequest{Item: "m02", Quantity: 1})
	require.NoError(t, err)
	sum, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "samosa", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, sum.Lines, 2, "el ítem repetido suma cantidad")
	assert.Equal(t, 3, sum.Lines[0].Quantity)
	assert.Equal(t, "in_progress", sum.State)
	// 60 snacks (5% = 3.00) + 120 grocery (1% = 1.20)
	assert.True(t, sum.Subtotal.Equal(decimal.RequireFromString("180")))
	assert.True(t, sum.TaxTotal.Equal(decimal.RequireFromString("4.20")))
	assert.True(t, sum.Total.Equal(decimal.RequireFromString("184.20")))

	bill, err := svc.Checkout(ctx, d.ID, dto.CheckoutRequest{CustomerName: " Ana ", CustomerPhone: "300"})
	require.NoError(t, err)
	assert.Equal(t, "123456", bill.Number)
	assert.Equal(t, "Ana", bill.CustomerName)
	assert.True(t, bill.Timestamp.Equal(fixedNow))
	require.NoError(t, billing.CheckInvariants(bill))

	stored, err := store.GetByNumber(ctx, "123456")
	require.NoError(t, err)
	assert.Equal(t, bill.ID, stored.ID)

	_, err = svc.Summary(d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la cuenta cerrada sale del registro")
	assert.Equal(t, 0, svc.OpenCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillsFinalized))
}

func TestCheckout_Errores(t *testing.T) {
	ctx := context.Background()
	svc := checkout.NewService(newCatalog(t), memory.NewBillRepository(), nil)

	_, err := svc.AddLine("nope", dto.AddLineRequest{Item: "Samosa", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d := svc.Open()
	_, err = svc.AddLine(d.ID, dto.AddLineRequest{Item: "Samosa", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = svc.AddLine(d.ID, dto.AddLineRequest{Item: "Pizza", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.RemoveLine(d.ID, "Pasta")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyBill)

	_, err = svc.AddLine(d.ID, dto.AddLineRequest{Item: "Noodles", Quantity: 1})
	require.NoError(t, err)
	out, err := svc.Clear(d.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Lines)

	require.NoError(t, svc.Discard(d.ID))
	assert.ErrorIs(t, svc.Discard(d.ID), domain.ErrNotFound)
}

func TestCheckout_NumeroRepetidoSeRegenera(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillRepository()
	svc := checkout.NewService(newCatalog(t), store, nil,
		checkout.WithNumberGenerator(sequence("111111", "111111", "222222")))

	for i := 0; i < 2; i++ {
		d := svc.Open()
		_, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "S01", Quantity: 1})
		require.NoError(t, err)
		bill, err := svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
		require.NoError(t, err)
		want := []string{"111111", "222222"}[i]
		assert.Equal(t, want, bill.Number)
	}
}

func TestCheckout_SinNumeroLibre(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillRepository()
	svc := checkout.NewService(newCatalog(t), store, nil, checkout.WithNumberGenerator(sequence("999999")))

	first := svc.Open()
	_, err := svc.AddLine(first.ID, dto.AddLineRequest{Item: "S01", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, first.ID, dto.CheckoutRequest{})
	require.NoError(t, err)

	second := svc.Open()
	_, err = svc.AddLine(second.ID, dto.AddLineRequest{Item: "S01", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, second.ID, dto.CheckoutRequest{})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, 1, svc.OpenCount(), "la cuenta sigue pendiente")
}

func TestCheckout_ReintentaGuardadoSinRecalcular(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(t)
	store := &flakyStore{BillRepo: memory.NewBillRepository(), fails: 1, err: errors.New("disco lleno")}
	svc := checkout.NewService(catalog, store, nil, checkout.WithNumberGenerator(sequence("100001")))

	d := svc.Open()
	_, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "Pasta", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, d.ID, dto.CheckoutRequest{CustomerName: "Luis"})
	require.Error(t, err)

	_, err = svc.AddLine(d.ID, dto.AddLineRequest{Item: "Pasta", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrBillFinalized, "la cuenta ya está finalizada")

	// Un cambio de precio posterior no altera la cuenta ya finalizada.
	price := decimal.NewFromInt(500)
	_, err = catalog.Update("Pasta", billing.ItemPatch{UnitPrice: &price})
	require.NoError(t, err)

	bill, err := svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Luis", bill.CustomerName)
	assert.True(t, bill.Subtotal.Equal(decimal.NewFromInt(120)))
}

// committedStore guarda la cuenta pero informa un error, como un timeout tras el commit.
type committedStore struct {
	*memory.BillRepo
	once bool
}

func (c *committedStore) Save(ctx context.Context, b *entity.Bill) error {
	if err := c.BillRepo.Save(ctx, b); err != nil {
		return err
	}
	if !c.once {
		c.once = true
		return errors.New("timeout esperando confirmación")
	}
	return nil
}

func TestCheckout_ReintentoTrasGuardadoConfirmado(t *testing.T) {
	ctx := context.Background()
	store := &committedStore{BillRepo: memory.NewBillRepository()}
	svc := checkout.NewService(newCatalog(t), store, nil,
		checkout.WithNumberGenerator(sequence("100001", "100002", "100003")))

	d := svc.Open()
	_, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "S01", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
	require.Error(t, err)

	bill, err := svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, "100001", bill.Number)
	assert.Equal(t, 0, svc.OpenCount())

	recent, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

// blockingStore detiene Save hasta que se cierre release.
type blockingStore struct {
	*memory.BillRepo
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, bill *entity.Bill) error {
	close(b.entered)
	<-b.release
	return b.BillRepo.Save(ctx, bill)
}

func TestCheckout_GuardadoNoBloqueaOtrasCuentas(t *testing.T) {
	ctx := context.Background()
	store := &blockingStore{
		BillRepo: memory.NewBillRepository(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := checkout.NewService(newCatalog(t), store, nil, checkout.WithNumberGenerator(sequence("100001")))

	slow := svc.Open()
	_, err := svc.AddLine(slow.ID, dto.AddLineRequest{Item: "S01", Quantity: 1})
	require.NoError(t, err)
	other := svc.Open()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Checkout(ctx, slow.ID, dto.CheckoutRequest{})
		done <- err
	}()
	<-store.entered

	edited := make(chan error, 1)
	go func() {
		_, err := svc.AddLine(other.ID, dto.AddLineRequest{Item: "Pasta", Quantity: 1})
		edited <- err
	}()
	select {
	case err := <-edited:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("AddLine quedó bloqueado por el guardado de otra cuenta")
	}

	_, err = svc.AddLine(slow.ID, dto.AddLineRequest{Item: "S01", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrBillFinalized)
	_, err = svc.Checkout(ctx, slow.ID, dto.CheckoutRequest{})
	assert.ErrorIs(t, err, domain.ErrBillFinalized, "checkout en curso")
	assert.ErrorIs(t, svc.Discard(slow.ID), domain.ErrBillFinalized)

	close(store.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, svc.OpenCount())
}

func TestCheckout_Concurrente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBillRepository()
	var mu sync.Mutex
	next := 100000
	gen := func() string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprint(next)
	}
	svc := checkout.NewService(newCatalog(t), store, nil, checkout.WithNumberGenerator(gen))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := svc.Open()
			_, err := svc.AddLine(d.ID, dto.AddLineRequest{Item: "Noodles", Quantity: 2})
			assert.NoError(t, err)
			_, err = svc.Checkout(ctx, d.ID, dto.CheckoutRequest{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	recent, err := store.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, recent, 20)
}

func TestRandomBillNumber(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := checkout.RandomBillNumber()
		require.Len(t, n, 6)
		assert.GreaterOrEqual(t, n, "100000")
	}
}
