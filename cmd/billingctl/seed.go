package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/application/menu"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/menufile"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/store"
	"github.com/jhoicas/restaurant-billing/pkg/config"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

func seedMenuCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "seed-menu",
		Short: "Carga el menú en el almacenamiento configurado; los ítems existentes no se tocan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := readMenu(file)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

			stores, err := store.Open(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			uc := menu.NewMenuUseCase(billing.NewCatalog(store.TaxTable(cfg.Restaurant)), stores.Menu, log)
			if _, err := uc.Load(cmd.Context()); err != nil {
				return fmt.Errorf("cargar menú existente: %w", err)
			}

			created, skipped, err := seed(cmd.Context(), uc, items)
			if err != nil {
				return err
			}
			log.Info().Int("creados", created).Int("existentes", skipped).Msg("menú sembrado")
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Menú en YAML (opcional; por defecto el menú incluido)")
	return c
}

func readMenu(file string) ([]dto.CreateMenuItemRequest, error) {
	if file == "" {
		return menufile.Default()
	}
	return menufile.Load(file)
}

// seed crea cada ítem; los duplicados cuentan como existentes.
func seed(ctx context.Context, uc *menu.MenuUseCase, items []dto.CreateMenuItemRequest) (created, skipped int, err error) {
	for _, in := range items {
		_, err := uc.Create(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicateKey):
			skipped++
		default:
			return created, skipped, fmt.Errorf("%s: %w", in.Name, err)
		}
	}
	return created, skipped, nil
}
