// Package invoice exporta cuentas cerradas como factura (pdf, texto o xml).
package invoice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

// DefaultFormat formato usado cuando la petición no indica ninguno.
const DefaultFormat = "pdf"

// Document factura generada lista para descargar.
type Document struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ExportUseCase busca la cuenta y delega en el Renderer del formato pedido.
type ExportUseCase struct {
	bills     repository.BillRepository
	renderers map[string]Renderer
	issuer    Issuer
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewExportUseCase construye el caso de uso con los renderers disponibles.
func NewExportUseCase(
	bills repository.BillRepository,
	issuer Issuer,
	log *logger.Logger,
	m *metrics.Metrics,
	renderers ...Renderer,
) *ExportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	byFormat := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ExportUseCase{
		bills:     bills,
		renderers: byFormat,
		issuer:    issuer,
		log:       log.Component("invoice"),
		metrics:   m,
	}
}

// Formats formatos soportados, en orden alfabético.
func (uc *ExportUseCase) Formats() []string {
	out := make([]string, 0, len(uc.renderers))
	for f := range uc.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Export genera la factura de la cuenta billID.
//
// Retorna:
//   - domain.ErrNotFound     si la cuenta no existe.
//   - domain.ErrInvalidInput si el formato no está soportado.
func (uc *ExportUseCase) Export(ctx context.Context, billID, format string) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultFormat
	}
	r, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q (soportados: %s)",
			domain.ErrInvalidInput, format, strings.Join(uc.Formats(), ", "))
	}

	bill, err := uc.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("invoice: obtener cuenta: %w", err)
	}

	content, err := r.Render(ctx, bill, uc.issuer)
	if err != nil {
		return nil, fmt.Errorf("invoice: generar %s: %w", format, err)
	}

	name := bill.Number
	if name == "" {
		name = bill.ID
	}
	uc.metrics.InvoiceExported(format)
	uc.log.Info().Str("bill_id", bill.ID).Str("format", format).Int("bytes", len(content)).Msg("factura exportada")
	return &Document{
		Content:     content,
		Filename:    fmt.Sprintf("invoice_%s.%s", name, r.Extension()),
		ContentType: r.ContentType(),
	}, nil
}
