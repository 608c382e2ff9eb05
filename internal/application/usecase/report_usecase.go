package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// ExpiringReport datos del reporte de productos por vencer.
type ExpiringReport struct {
	Before      time.Time
	GeneratedAt time.Time
	Items       []entity.Product // ordenados por vencimiento
}

// ExpiringReportGenerator puerto de render del reporte (PDF, XML).
type ExpiringReportGenerator interface {
	GenerateExpiringReport(ctx context.Context, report ExpiringReport) ([]byte, error)
}

// ReportUseCase genera reportes de inventario.
type ReportUseCase struct {
	products *ProductUseCase
	pdf      ExpiringReportGenerator
	xml      ExpiringReportGenerator
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. xml puede ser nil (formato no disponible).
func NewReportUseCase(products *ProductUseCase, pdf, xml ExpiringReportGenerator) *ReportUseCase {
	return &ReportUseCase{products: products, pdf: pdf, xml: xml, now: time.Now}
}

// ExpiringPDF devuelve el PDF de los productos que vencen antes de before (YYYY-MM-DD).
func (uc *ReportUseCase) ExpiringPDF(ctx context.Context, before string) ([]byte, error) {
	return uc.expiring(ctx, before, uc.pdf)
}

// ExpiringXML igual que ExpiringPDF pero en XML.
func (uc *ReportUseCase) ExpiringXML(ctx context.Context, before string) ([]byte, error) {
	if uc.xml == nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.expiring(ctx, before, uc.xml)
}

func (uc *ReportUseCase) expiring(ctx context.Context, before string, generator ExpiringReportGenerator) ([]byte, error) {
	items, err := uc.products.ExpiringBefore(ctx, before)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExpirationDate.Before(items[j].ExpirationDate)
	})
	limit, _ := entity.ParseDate(before)
	return generator.GenerateExpiringReport(ctx, ExpiringReport{
		Before:      limit,
		GeneratedAt: uc.now(),
		Items:       items,
	})
}
