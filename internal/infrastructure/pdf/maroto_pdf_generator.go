// Package pdf genera la factura de una cuenta cerrada en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Restaurante + contacto  │  N° Cuenta + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Teléfono                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Cant | P.Unit | Importe                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto por categoría / TOTAL          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: id de la cuenta + agradecimiento                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 32, Blue: 16}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ invoice.Renderer = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa invoice.Renderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func (*MarotoPDFGenerator) Format() string      { return "pdf" }
func (*MarotoPDFGenerator) ContentType() string { return "application/pdf" }
func (*MarotoPDFGenerator) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Render(_ context.Context, bill *entity.Bill, issuer invoice.Issuer) ([]byte, error) {
	money := invoice.NewMoneyFormatter(issuer)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Restaurant Invoice "+bill.Number, true).
		WithAuthor(nonEmpty(issuer.Name, "Restaurant"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(bill, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(bill))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(bill.Lines, money)...)

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(bill, money)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(bill))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(bill *entity.Bill, issuer invoice.Issuer) core.Row {
	contact := issuer.Address
	if issuer.Phone != "" {
		if contact != "" {
			contact += "   |   "
		}
		contact += "Tel: " + issuer.Phone
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuer.Name, "RESTAURANT"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RESTAURANT INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Bill No: "+bill.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+bill.Timestamp.UTC().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(bill *entity.Bill) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CUSTOMER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Phone: %s",
				nonEmpty(bill.CustomerName, "-"),
				nonEmpty(bill.CustomerPhone, "-"),
			), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 6, align.Left),
		h("Qty", 2, align.Right),
		h("Unit", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

func tableDetailRows(lines []entity.LineItem, money invoice.MoneyFormatter) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.ItemName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Number(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Number(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: una fila por concepto, alineadas a la derecha.
func totalsRows(bill *entity.Bill, money invoice.MoneyFormatter) []core.Row {
	entry := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			p = props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1}
		}
		lp := p
		lp.Right = 2
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	cats := make([]entity.TaxCategory, 0, len(bill.TaxBreakdown))
	for c := range bill.TaxBreakdown {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	rows := []core.Row{entry("Subtotal:", money.Format(bill.Subtotal), false)}
	for _, c := range cats {
		rows = append(rows, entry(fmt.Sprintf("Tax (%s):", c), money.Format(bill.TaxBreakdown[c]), false))
	}
	rows = append(rows,
		entry("Total Tax:", money.Format(bill.TaxTotal), false),
		entry("Grand Total:", money.Format(bill.Total), true),
	)
	return rows
}

func footerRow(bill *entity.Bill) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Thank you for dining with us!", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 1,
		}),
		text.New("Ref: "+bill.ID, props.Text{Size: 6.5, Align: align.Center, Color: colorGray, Top: 6}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
