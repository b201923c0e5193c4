package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/billcodec"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo tabla bills: una fila por cuenta, líneas e impuestos como JSON.
type BillRepo struct {
	db *sql.DB
}

// NewBillRepository construye el adaptador sobre la conexión abierta.
func NewBillRepository(d *DB) *BillRepo {
	return &BillRepo{db: d.db}
}

const billColumns = `id, bill_no, customer_name, phone, ts, items, tax_breakdown, subtotal, tax, total`

// Save inserta la cuenta. ErrDuplicateID si el ID o el número ya existen.
func (r *BillRepo) Save(ctx context.Context, bill *entity.Bill) error {
	items, err := billcodec.EncodeLines(bill.Lines)
	if err != nil {
		return err
	}
	taxes, err := billcodec.EncodeTaxes(bill.TaxBreakdown)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, nullIfEmpty(bill.Number), bill.CustomerName, bill.CustomerPhone,
		bill.Timestamp.UTC().UnixMicro(), string(items), string(taxes),
		billcodec.Money(bill.Subtotal), billcodec.Money(bill.TaxTotal), billcodec.Money(bill.Total),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, bill.ID)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = ?`, id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, id)
	}
	return b, err
}

// GetByNumber obtiene una cuenta por número visible.
func (r *BillRepo) GetByNumber(ctx context.Context, number string) (*entity.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_no = ?`, number)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: cuenta número %s", domain.ErrNotFound, number)
	}
	return b, err
}

// Query recorre las cuentas del rango leyendo fila por fila; cada recorrido abre una consulta nueva.
// ts se guarda en microsegundos: cubre cualquier fecha que acepte ParseRange.
func (r *BillRepo) Query(ctx context.Context, from, to time.Time) iter.Seq2[*entity.Bill, error] {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if !from.IsZero() {
		lo = from.UTC().UnixMicro()
	}
	if !to.IsZero() {
		hi = to.UTC().UnixMicro()
	}
	return func(yield func(*entity.Bill, error) bool) {
		rows, err := r.db.QueryContext(ctx,
			`SELECT `+billColumns+` FROM bills WHERE ts >= ? AND ts < ? ORDER BY ts ASC, id ASC`, lo, hi)
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
			yield(nil, fmt.Errorf("iterar bills: %w", err))
		}
	}
}

// ListRecent devuelve las últimas cuentas, la más reciente primero.
func (r *BillRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Bill, error) {
	if limit <= 0 {
		limit = repository.DefaultRecentLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+` FROM bills ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanBill(s scanner) (*entity.Bill, error) {
	var (
		b                    entity.Bill
		number               sql.NullString
		ts                   int64
		items, taxes         string
		subtotal, tax, total string
	)
	if err := s.Scan(&b.ID, &number, &b.CustomerName, &b.CustomerPhone, &ts,
		&items, &taxes, &subtotal, &tax, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan bill: %w", err)
	}
	b.Number = number.String
	b.Timestamp = time.UnixMicro(ts).UTC()

	var err error
	if b.Lines, err = billcodec.DecodeLines([]byte(items)); err != nil {
		return nil, err
	}
	if b.TaxBreakdown, err = billcodec.DecodeTaxes([]byte(taxes)); err != nil {
		return nil, err
	}
	if b.Subtotal, err = billcodec.ParseMoney(subtotal); err != nil {
		return nil, err
	}
	if b.TaxTotal, err = billcodec.ParseMoney(tax); err != nil {
		return nil, err
	}
	if b.Total, err = billcodec.ParseMoney(total); err != nil {
		return nil, err
	}
	return &b, nil
}
