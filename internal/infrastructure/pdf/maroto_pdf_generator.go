// Package pdf genera el reporte de productos por vencer con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha límite │ Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Producto | Vence | Días | Stock | Precio | Desc │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades / valor del stock            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

var _ usecase.ExpiringReportGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// MarotoPDFGenerator implementa usecase.ExpiringReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	title string
}

// NewMarotoPDFGenerator construye el generador. title aparece como autor del documento.
func NewMarotoPDFGenerator(title string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{title: title}
}

// GenerateExpiringReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateExpiringReport(_ context.Context, report usecase.ExpiringReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Productos por vencer", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	today := entity.DateOf(report.GeneratedAt)
	for _, p := range report.Items {
		m.AddRows(itemRow(p, today))
	}
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos que venzan antes de la fecha indicada.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report usecase.ExpiringReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("PRODUCTOS POR VENCER", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Vencen antes del "+report.Before.Format("02/01/2006"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Left),
		h("Producto", 4, align.Left),
		h("Vence", 2, align.Center),
		h("Días", 1, align.Center),
		h("Stock", 1, align.Right),
		h("Precio", 2, align.Right),
		h("Desc.", 1, align.Center),
	)
}

func itemRow(p entity.Product, today time.Time) core.Row {
	days := entity.DaysBetween(today, p.ExpirationDate)
	daysStyle := props.Text{Size: 8, Align: align.Center, Top: 1}
	if days <= 0 {
		daysStyle.Color = colorAlert
		daysStyle.Style = fontstyle.Bold
	}
	discounted := "No"
	if p.Discounted {
		discounted = "Sí"
	}
	return row.New(6).Add(
		col.New(1).Add(text.New(strconv.FormatInt(p.ID, 10), props.Text{Size: 8, Top: 1})),
		col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(p.ExpirationDate.Format("02/01/2006"), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(1).Add(text.New(strconv.Itoa(days), daysStyle)),
		col.New(1).Add(text.New(strconv.Itoa(p.Stock), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(2).Add(text.New("$"+p.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(1).Add(text.New(discounted, props.Text{Size: 8, Align: align.Center, Top: 1})),
	)
}

func totalsRow(items []entity.Product) core.Row {
	units := 0
	value := decimal.Zero
	for _, p := range items {
		units += p.Stock
		value = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	val := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label("Productos:"),
			label("Unidades:"),
			label("Valor en stock:"),
		),
		col.New(3).Add(
			val(strconv.Itoa(len(items))),
			val(strconv.Itoa(units)),
			val("$"+value.StringFixed(2)),
		),
	)
}
