// Package checkout mantiene las cuentas abiertas del mostrador entre llamadas HTTP
// y las cierra: finaliza, asigna número y guarda.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

// MaxNumberAttempts intentos de número de cuenta antes de rendirse.
const MaxNumberAttempts = 5

// NumberGenerator produce números de cuenta visibles.
type NumberGenerator func() string

// RandomBillNumber número aleatorio de 6 dígitos (100000-999999).
func RandomBillNumber() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// Catalog lo que checkout necesita del menú.
type Catalog interface {
	billing.ItemResolver
	Taxes() billing.TaxTable
}

type draft struct {
	acc     *billing.Accumulator
	pending *entity.Bill // cuenta ya finalizada cuyo guardado falló
	saving  bool
}

// Service registro de cuentas abiertas. Cada Accumulator es de un solo hilo;
// el mutex del registro serializa el acceso desde los handlers concurrentes.
type Service struct {
	catalog Catalog
	bills   repository.BillRepository
	log     *logger.Logger
	metrics *metrics.Metrics
	numbers NumberGenerator
	now     func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

// Option configura el Service.
type Option func(*Service)

// WithNumberGenerator reemplaza el generador de números de cuenta.
func WithNumberGenerator(g NumberGenerator) Option {
	return func(s *Service) { s.numbers = g }
}

// WithMetrics registra contadores Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock fija el reloj usado para la fecha de las cuentas.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService construye el registro de cuentas abiertas.
func NewService(catalog Catalog, bills repository.BillRepository, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		catalog: catalog,
		bills:   bills,
		log:     log.Component("checkout"),
		numbers: RandomBillNumber,
		now:     time.Now,
		drafts:  make(map[string]*draft),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open abre una cuenta vacía y devuelve su id.
func (s *Service) Open() *dto.DraftResponse {
	acc := billing.NewAccumulator(s.catalog, s.catalog.Taxes())
	acc.Start()
	id := uuid.New().String()

	s.mu.Lock()
	s.drafts[id] = &draft{acc: acc}
	n := len(s.drafts)
	s.mu.Unlock()

	s.metrics.SetDraftsOpen(n)
	return toDraftResponse(id, acc)
}

// withDraft ejecuta fn con el registro bloqueado. ErrNotFound si el id no existe.
func (s *Service) withDraft(id string, fn func(d *draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("%w: cuenta abierta %s", domain.ErrNotFound, id)
	}
	return fn(d)
}

// AddLine agrega qty unidades de un ítem (nombre o código) a la cuenta abierta.
func (s *Service) AddLine(id string, in dto.AddLineRequest) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := s.withDraft(id, func(d *draft) error {
		if d.pending != nil {
			return domain.ErrBillFinalized
		}
		if err := d.acc.AddLine(in.Item, in.Quantity); err != nil {
			return err
		}
		out = toDraftResponse(id, d.acc)
		return nil
	})
	return out, err
}

// RemoveLine quita la línea de un ítem.
func (s *Service) RemoveLine(id, item string) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := s.withDraft(id, func(d *draft) error {
		if d.pending != nil {
			return domain.ErrBillFinalized
		}
		if err := d.acc.RemoveLine(item); err != nil {
			return err
		}
		out = toDraftResponse(id, d.acc)
		return nil
	})
	return out, err
}

// Clear vacía la cuenta abierta.
func (s *Service) Clear(id string) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := s.withDraft(id, func(d *draft) error {
		if d.pending != nil {
			return domain.ErrBillFinalized
		}
		if err := d.acc.Clear(); err != nil {
			return err
		}
		out = toDraftResponse(id, d.acc)
		return nil
	})
	return out, err
}

// Summary devuelve líneas y totales provisionales.
func (s *Service) Summary(id string) (*dto.DraftResponse, error) {
	var out *dto.DraftResponse
	err := s.withDraft(id, func(d *draft) error {
		out = toDraftResponse(id, d.acc)
		return nil
	})
	return out, err
}

// Discard descarta la cuenta abierta sin guardarla.
func (s *Service) Discard(id string) error {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if ok && d.saving {
		s.mu.Unlock()
		return fmt.Errorf("%w: cuenta %s en cierre", domain.ErrBillFinalized, id)
	}
	delete(s.drafts, id)
	n := len(s.drafts)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: cuenta abierta %s", domain.ErrNotFound, id)
	}
	s.metrics.SetDraftsOpen(n)
	return nil
}

// Checkout cierra la cuenta: la finaliza, le asigna número y la guarda.
// Si el número ya existe se genera otro (hasta MaxNumberAttempts). Si el guardado
// falla por otra causa, la cuenta finalizada queda pendiente y un nuevo Checkout
// reintenta guardarla sin volver a calcularla. El guardado corre fuera del mutex
// del registro; mientras dura, la cuenta no acepta cambios ni otro Checkout.
func (s *Service) Checkout(ctx context.Context, id string, in dto.CheckoutRequest) (*entity.Bill, error) {
	d, bill, err := s.beginCheckout(id, in)
	if err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, bill)

	s.mu.Lock()
	d.saving = false
	if err == nil {
		delete(s.drafts, id)
	}
	n := len(s.drafts)
	s.mu.Unlock()

	if err != nil {
		s.metrics.SaveFailed()
		s.log.Error().Err(err).Str("bill_id", bill.ID).Msg("no se pudo guardar la cuenta")
		return nil, err
	}

	s.metrics.SetDraftsOpen(n)
	s.metrics.BillSaved(saved.Total.InexactFloat64())
	s.log.Info().
		Str("bill_id", saved.ID).
		Str("number", saved.Number).
		Int("lines", len(saved.Lines)).
		Str("total", saved.Total.StringFixed(2)).
		Msg("cuenta cerrada")
	return saved, nil
}

// beginCheckout finaliza la cuenta (o toma la pendiente) y la marca en guardado.
func (s *Service) beginCheckout(id string, in dto.CheckoutRequest) (*draft, *entity.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: cuenta abierta %s", domain.ErrNotFound, id)
	}
	if d.saving {
		return nil, nil, fmt.Errorf("%w: cuenta %s en cierre", domain.ErrBillFinalized, id)
	}
	if d.pending == nil {
		bill, err := d.acc.Finalize(billing.Header{
			Customer:  entity.Customer{Name: in.CustomerName, Phone: in.CustomerPhone},
			Timestamp: s.now(),
		})
		if err != nil {
			return nil, nil, err
		}
		d.pending = bill
	}
	d.saving = true
	return d, d.pending, nil
}

// save guarda la cuenta. Un ErrDuplicateID con una cuenta de mismo ID ya guardada
// significa que un intento anterior llegó a la base: se devuelve la guardada.
// Cualquier otro ErrDuplicateID es un número repetido y se genera otro.
func (s *Service) save(ctx context.Context, bill *entity.Bill) (*entity.Bill, error) {
	var err error
	for attempt := 0; attempt < MaxNumberAttempts; attempt++ {
		if bill.Number == "" || attempt > 0 {
			bill.Number = s.numbers()
		}
		err = s.bills.Save(ctx, bill)
		if err == nil {
			return bill, nil
		}
		if !errors.Is(err, domain.ErrDuplicateID) {
			return nil, err
		}
		if stored, getErr := s.bills.GetByID(ctx, bill.ID); getErr == nil {
			s.log.Warn().Str("bill_id", bill.ID).Msg("la cuenta ya estaba guardada")
			return stored, nil
		}
		s.log.Warn().Str("number", bill.Number).Msg("número de cuenta repetido, se genera otro")
	}
	return nil, fmt.Errorf("checkout: sin número de cuenta libre tras %d intentos: %w", MaxNumberAttempts, err)
}

// OpenCount cuentas abiertas en este momento.
func (s *Service) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func toDraftResponse(id string, acc *billing.Accumulator) *dto.DraftResponse {
	totals := acc.Compute()
	return &dto.DraftResponse{
		ID:           id,
		State:        acc.State().String(),
		Lines:        dto.FromLines(acc.Lines()),
		Subtotal:     totals.Subtotal,
		TaxBreakdown: dto.FromTaxBreakdown(totals.TaxBreakdown),
		TaxTotal:     totals.TaxTotal,
		Total:        totals.Total,
	}
}
