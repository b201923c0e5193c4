// Package menu mantiene sincronizados el menú en memoria (billing.Catalog) y su repositorio.
package menu

import (
	"context"
	"fmt"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

// MenuUseCase casos de uso CRUD del menú. El Catalog es la fuente para la caja;
// el repositorio lo persiste. Si el repositorio falla, el Catalog vuelve a su estado anterior.
type MenuUseCase struct {
	catalog *billing.Catalog
	repo    repository.MenuRepository
	log     *logger.Logger
}

// NewMenuUseCase construye el caso de uso.
func NewMenuUseCase(catalog *billing.Catalog, repo repository.MenuRepository, log *logger.Logger) *MenuUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MenuUseCase{catalog: catalog, repo: repo, log: log.Component("menu")}
}

// Load carga en el Catalog todos los ítems persistidos. Se llama una vez al arrancar.
func (uc *MenuUseCase) Load(ctx context.Context) (int, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("menu: listar: %w", err)
	}
	for _, it := range items {
		if _, err := uc.catalog.Add(*it); err != nil {
			return 0, fmt.Errorf("menu: cargar %q: %w", it.Name, err)
		}
	}
	uc.log.Info().Int("items", len(items)).Msg("menú cargado")
	return len(items), nil
}

// Create agrega un ítem al menú.
func (uc *MenuUseCase) Create(ctx context.Context, in dto.CreateMenuItemRequest) (*dto.MenuItemResponse, error) {
	item, err := uc.catalog.Add(entity.MenuItem{
		Code:      in.Code,
		Name:      in.Name,
		UnitPrice: in.UnitPrice,
		Category:  entity.ParseTaxCategory(in.Category),
	})
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, &item); err != nil {
		_ = uc.catalog.Remove(item.Name)
		return nil, err
	}
	uc.log.Info().Str("item", item.Name).Str("price", item.UnitPrice.StringFixed(2)).Msg("ítem creado")
	return uc.toResponse(item), nil
}

// Get obtiene un ítem por nombre o código.
func (uc *MenuUseCase) Get(name string) (*dto.MenuItemResponse, error) {
	item, err := uc.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(item), nil
}

// List devuelve el menú completo ordenado por código.
func (uc *MenuUseCase) List() []dto.MenuItemResponse {
	items := uc.catalog.List()
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *uc.toResponse(it))
	}
	return out
}

// Update cambia precio, categoría o código. Las cuentas ya cerradas no se ven afectadas.
func (uc *MenuUseCase) Update(ctx context.Context, name string, in dto.UpdateMenuItemRequest) (*dto.MenuItemResponse, error) {
	prev, err := uc.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	patch := billing.ItemPatch{Code: in.Code, UnitPrice: in.UnitPrice}
	if in.Category != nil {
		cat := entity.ParseTaxCategory(*in.Category)
		patch.Category = &cat
	}
	item, err := uc.catalog.Update(prev.Name, patch)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, &item); err != nil {
		_, _ = uc.catalog.Update(prev.Name, billing.ItemPatch{
			Code: &prev.Code, UnitPrice: &prev.UnitPrice, Category: &prev.Category,
		})
		return nil, err
	}
	uc.log.Info().Str("item", item.Name).Str("price", item.UnitPrice.StringFixed(2)).
		Str("category", item.Category.String()).Msg("ítem actualizado")
	return uc.toResponse(item), nil
}

// Delete quita un ítem del menú.
func (uc *MenuUseCase) Delete(ctx context.Context, name string) error {
	prev, err := uc.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if err := uc.catalog.Remove(prev.Name); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, prev.Name); err != nil {
		_, _ = uc.catalog.Add(prev)
		return err
	}
	uc.log.Info().Str("item", prev.Name).Msg("ítem eliminado")
	return nil
}

func (uc *MenuUseCase) toResponse(it entity.MenuItem) *dto.MenuItemResponse {
	rate, _ := uc.catalog.Taxes().Rate(it.Category)
	return &dto.MenuItemResponse{
		Code:      it.Code,
		Name:      it.Name,
		UnitPrice: it.UnitPrice,
		Category:  it.Category.String(),
		TaxRate:   rate,
		UpdatedAt: it.UpdatedAt,
	}
}
