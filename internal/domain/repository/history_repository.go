package repository

import (
	"context"

	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// HistoryRepository puerto de persistencia de la auditoría (solo inserción y lectura).
type HistoryRepository interface {
	Append(ctx context.Context, record *entity.HistoryRecord) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.HistoryRecord, error)
}
