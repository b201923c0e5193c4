// Package history consulta las cuentas guardadas: por id, por número, por rango de fechas
// y el historial reciente.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
)

// MaxSearchResults tope de cuentas devueltas por una búsqueda por fechas.
const MaxSearchResults = 1000

// HistoryUseCase lectura de cuentas cerradas.
type HistoryUseCase struct {
	bills repository.BillRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(bills repository.BillRepository) *HistoryUseCase {
	return &HistoryUseCase{bills: bills}
}

// GetByID obtiene una cuenta por id.
func (uc *HistoryUseCase) GetByID(ctx context.Context, id string) (*dto.BillResponse, error) {
	b, err := uc.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromBill(b)
	return &out, nil
}

// GetByNumber obtiene una cuenta por su número impreso.
func (uc *HistoryUseCase) GetByNumber(ctx context.Context, number string) (*dto.BillResponse, error) {
	b, err := uc.bills.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	out := dto.FromBill(b)
	return &out, nil
}

// Search devuelve las cuentas con from <= fecha < to en orden ascendente.
// Recorre el iterador del store y corta al llegar a MaxSearchResults.
func (uc *HistoryUseCase) Search(ctx context.Context, from, to time.Time) (*dto.BillListResponse, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}
	out := &dto.BillListResponse{Items: []dto.BillResponse{}}
	for b, err := range uc.bills.Query(ctx, from, to) {
		if err != nil {
			return nil, fmt.Errorf("history: buscar: %w", err)
		}
		out.Items = append(out.Items, dto.FromBill(b))
		if len(out.Items) == MaxSearchResults {
			break
		}
	}
	out.Count = len(out.Items)
	return out, nil
}

// Recent devuelve las últimas limit cuentas, la más reciente primero.
func (uc *HistoryUseCase) Recent(ctx context.Context, limit int) (*dto.BillListResponse, error) {
	bills, err := uc.bills.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recientes: %w", err)
	}
	out := &dto.BillListResponse{Items: make([]dto.BillResponse, 0, len(bills))}
	for _, b := range bills {
		out.Items = append(out.Items, dto.FromBill(b))
	}
	out.Count = len(out.Items)
	return out, nil
}

// ParseRange interpreta los límites de una búsqueda. Acepta RFC3339 o YYYY-MM-DD (UTC).
// Un to con solo fecha incluye ese día completo. Cadenas vacías = sin límite.
func ParseRange(fromStr, toStr string) (from, to time.Time, err error) {
	if from, _, err = parseBound(fromStr); err != nil {
		return time.Time{}, time.Time{}, err
	}
	var dateOnly bool
	if to, dateOnly, err = parseBound(toStr); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func parseBound(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: fecha %q (use RFC3339 o YYYY-MM-DD)", domain.ErrInvalidInput, s)
}
