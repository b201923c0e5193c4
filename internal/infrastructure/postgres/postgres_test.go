package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/storetest"
	"github.com/jhoicas/restaurant-billing/pkg/config"
)

// Requiere TEST_DATABASE_URL apuntando a una base desechable: las tablas se vacían.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.Open(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE bills, menu_items`)
	require.NoError(t, err)
	return pool
}

func TestBillRepo(t *testing.T) {
	storetest.RunBillRepository(t, func(t *testing.T) repository.BillRepository {
		return postgres.NewBillRepository(testPool(t))
	})
}

func TestMenuRepo(t *testing.T) {
	storetest.RunMenuRepository(t, func(t *testing.T) repository.MenuRepository {
		return postgres.NewMenuRepository(testPool(t))
	})
}
