// Package xmlreport genera el reporte de productos por vencer en XML (etree),
// pensado para integraciones con proveedores que no consumen JSON.
package xmlreport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

var _ usecase.ExpiringReportGenerator = (*EtreeGenerator)(nil)

// EtreeGenerator implementa usecase.ExpiringReportGenerator con etree.
type EtreeGenerator struct {
	source string
}

// NewEtreeGenerator construye el generador. source identifica al emisor en el documento.
func NewEtreeGenerator(source string) *EtreeGenerator {
	return &EtreeGenerator{source: source}
}

// GenerateExpiringReport serializa el reporte con sangría de dos espacios.
func (g *EtreeGenerator) GenerateExpiringReport(_ context.Context, report usecase.ExpiringReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ExpiringReport")
	root.CreateAttr("source", g.source)
	root.CreateAttr("before", report.Before.Format(time.DateOnly))
	root.CreateAttr("generatedAt", report.GeneratedAt.UTC().Format(time.RFC3339))

	today := entity.DateOf(report.GeneratedAt)
	units := 0
	value := decimal.Zero
	items := root.CreateElement("Products")
	for _, p := range report.Items {
		el := items.CreateElement("Product")
		el.CreateAttr("id", strconv.FormatInt(p.ID, 10))
		el.CreateElement("Name").SetText(p.Name)
		el.CreateElement("Price").SetText(p.Price.StringFixed(2))
		el.CreateElement("Stock").SetText(strconv.Itoa(p.Stock))
		el.CreateElement("ExpirationDate").SetText(p.ExpirationDate.Format(time.DateOnly))
		el.CreateElement("DaysUntilExpiry").SetText(strconv.Itoa(entity.DaysBetween(today, p.ExpirationDate)))
		el.CreateElement("Discounted").SetText(strconv.FormatBool(p.Discounted))
		if p.CategoryID != nil {
			el.CreateElement("CategoryId").SetText(strconv.FormatInt(*p.CategoryID, 10))
		}
		if p.SupplierID != nil {
			el.CreateElement("SupplierId").SetText(strconv.FormatInt(*p.SupplierID, 10))
		}
		units += p.Stock
		value = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}

	totals := root.CreateElement("Totals")
	totals.CreateAttr("products", strconv.Itoa(len(report.Items)))
	totals.CreateAttr("units", strconv.Itoa(units))
	totals.CreateAttr("stockValue", value.StringFixed(2))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar reporte: %w", err)
	}
	return out, nil
}
