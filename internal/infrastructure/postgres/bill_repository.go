package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/billcodec"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

const billColumns = `id, COALESCE(bill_no, ''), customer_name, phone, ts, items, tax_breakdown, subtotal, tax, total`

// Save persiste la cuenta finalizada. ID o número repetido devuelve ErrDuplicateID.
func (r *BillRepo) Save(ctx context.Context, bill *entity.Bill) error {
	items, err := billcodec.EncodeLines(bill.Lines)
	if err != nil {
		return err
	}
	taxes, err := billcodec.EncodeTaxes(bill.TaxBreakdown)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bills (id, bill_no, customer_name, phone, ts, items, tax_breakdown, subtotal, tax, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		bill.ID, nullIfEmpty(bill.Number), bill.CustomerName, bill.CustomerPhone,
		bill.Timestamp.UTC(), string(items), string(taxes),
		bill.Subtotal.Round(2), bill.TaxTotal.Round(2), bill.Total.Round(2),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, bill.ID)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por id.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	row := r.q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	b, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, id)
	}
	return b, err
}

// GetByNumber obtiene una cuenta por su número impreso.
func (r *BillRepo) GetByNumber(ctx context.Context, number string) (*entity.Bill, error) {
	row := r.q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_no = $1`, number)
	b, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: cuenta número %s", domain.ErrNotFound, number)
	}
	return b, err
}

// Query recorre las cuentas con from <= ts < to en orden ascendente.
// Cada recorrido ejecuta una consulta nueva; cortar el range cierra las filas.
func (r *BillRepo) Query(ctx context.Context, from, to time.Time) iter.Seq2[*entity.Bill, error] {
	return func(yield func(*entity.Bill, error) bool) {
		query := `SELECT ` + billColumns + ` FROM bills
			WHERE ($1::timestamptz IS NULL OR ts >= $1)
			  AND ($2::timestamptz IS NULL OR ts < $2)
			ORDER BY ts ASC, id ASC`
		rows, err := r.q.Query(ctx, query, nullIfZero(from), nullIfZero(to))
		if err != nil {
			yield(nil, fmt.Errorf("query bills: %w", err))
			return
		}
		defer rows.Close()
		for rows.Next() {
			b, err := scanBill(rows)
			if !yield(b, err) || err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("iterate bills: %w", err))
		}
	}
}

// ListRecent devuelve las últimas limit cuentas, la más reciente primero.
func (r *BillRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Bill, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentLimit
	}
	rows, err := r.q.Query(ctx, `SELECT `+billColumns+` FROM bills ORDER BY ts DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent bills: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func nullIfZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func scanBill(row pgx.Row) (*entity.Bill, error) {
	var (
		b            entity.Bill
		items, taxes []byte
	)
	err := row.Scan(&b.ID, &b.Number, &b.CustomerName, &b.CustomerPhone, &b.Timestamp,
		&items, &taxes, &b.Subtotal, &b.TaxTotal, &b.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan bill: %w", err)
	}
	b.Timestamp = b.Timestamp.UTC()
	if b.Lines, err = billcodec.DecodeLines(items); err != nil {
		return nil, err
	}
	if b.TaxBreakdown, err = billcodec.DecodeTaxes(taxes); err != nil {
		return nil, err
	}
	return &b, nil
}
