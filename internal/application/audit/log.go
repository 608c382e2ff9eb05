// Package audit escribe la auditoría inmutable de mutaciones de productos.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

// Log agrega entradas de auditoría sobre un HistoryRepository.
// El store lo construye sobre el repositorio atado a la transacción de la mutación,
// de modo que mutación y entrada se confirman o se revierten juntas.
type Log struct {
	repo repository.HistoryRepository
	now  func() time.Time
}

// New construye el log. Si now es nil se usa time.Now.
func New(repo repository.HistoryRepository, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{repo: repo, now: now}
}

// Append registra una entrada con timestamp asignado por el log.
func (l *Log) Append(ctx context.Context, productID int64, action entity.HistoryAction, oldValue, newValue *string) (*entity.HistoryRecord, error) {
	if productID < 1 {
		return nil, domain.NewValidationError("productId", "debe ser mayor que 0")
	}
	if !action.Valid() {
		return nil, domain.NewValidationError("action", fmt.Sprintf("acción desconocida %q", action))
	}
	rec := &entity.HistoryRecord{
		ProductID: productID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		Timestamp: l.now().UTC(),
	}
	if err := l.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return rec, nil
}

// Describe valor descriptivo de precio y stock ("price=4.50, stock=100").
func Describe(price decimal.Decimal, stock int) *string {
	s := fmt.Sprintf("price=%s, stock=%d", price.StringFixed(2), stock)
	return &s
}

// DescribeStock valor descriptivo de stock ("stock=110").
func DescribeStock(stock int) *string {
	s := fmt.Sprintf("stock=%d", stock)
	return &s
}
