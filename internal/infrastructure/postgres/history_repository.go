package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación de HistoryRepository sobre PostgreSQL. Solo inserta y lee.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta la entrada y asigna record.ID.
func (r *HistoryRepo) Append(ctx context.Context, record *entity.HistoryRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO product_history (product_id, action, old_value, new_value, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		record.ProductID, string(record.Action), record.OldValue, record.NewValue, record.Timestamp,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListByProduct devuelve la auditoría del producto ordenada por id.
func (r *HistoryRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.HistoryRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, action, old_value, new_value, timestamp
		FROM product_history WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryRecord
	for rows.Next() {
		var (
			rec    entity.HistoryRecord
			action string
		)
		if err := rows.Scan(&rec.ID, &rec.ProductID, &action, &rec.OldValue, &rec.NewValue, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Action = entity.HistoryAction(action)
		rec.Timestamp = rec.Timestamp.UTC()
		list = append(list, &rec)
	}
	return list, rows.Err()
}
