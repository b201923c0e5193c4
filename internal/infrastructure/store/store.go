// Package store abre el almacenamiento elegido por STORE_DRIVER y entrega los
// repositorios de menú y cuentas listos para usar.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/sqlite"
	"github.com/jhoicas/restaurant-billing/pkg/config"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

// Stores repositorios abiertos y la función que libera la conexión.
type Stores struct {
	Driver string
	Menu   repository.MenuRepository
	Bills  repository.BillRepository
	Close  func()
}

// Open conecta según cfg.Store.Driver y aplica las migraciones del esquema.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("store: sqlite %s: %w", cfg.Store.SQLitePath, err)
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("usando SQLite")
		return &Stores{
			Driver: cfg.Store.Driver,
			Menu:   sqlite.NewMenuRepository(db),
			Bills:  sqlite.NewBillRepository(db),
			Close: func() {
				if err := db.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar SQLite")
				}
			},
		}, nil

	case config.StorePostgres:
		pool, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("store: postgres: %w", err)
		}
		log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.DBName).Msg("usando PostgreSQL")
		return &Stores{
			Driver: cfg.Store.Driver,
			Menu:   postgres.NewMenuRepository(pool),
			Bills:  postgres.NewBillRepository(pool),
			Close:  pool.Close,
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("almacenamiento en memoria: las cuentas se pierden al reiniciar")
		return &Stores{
			Driver: cfg.Store.Driver,
			Menu:   memory.NewMenuRepository(),
			Bills:  memory.NewBillRepository(),
			Close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("store: driver desconocido %q", cfg.Store.Driver)
}
