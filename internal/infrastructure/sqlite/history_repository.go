package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

const dateLayout = time.DateOnly

// HistoryRepo implementación de HistoryRepository sobre SQLite. Solo inserta y lee.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta la entrada y asigna record.ID.
func (r *HistoryRepo) Append(ctx context.Context, record *entity.HistoryRecord) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO product_history (product_id, action, old_value, new_value, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ProductID, string(record.Action), nullString(record.OldValue), nullString(record.NewValue),
		record.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("history id: %w", err)
	}
	record.ID = id
	return nil
}

// ListByProduct devuelve la auditoría del producto ordenada por id.
func (r *HistoryRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.HistoryRecord, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, product_id, action, old_value, new_value, timestamp
		 FROM product_history WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var list []*entity.HistoryRecord
	for rows.Next() {
		var (
			rec      entity.HistoryRecord
			action   string
			oldValue sql.NullString
			newValue sql.NullString
			ts       string
		)
		if err := rows.Scan(&rec.ID, &rec.ProductID, &action, &oldValue, &newValue, &ts); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Action = entity.HistoryAction(action)
		rec.OldValue, rec.NewValue = stringPtr(oldValue), stringPtr(newValue)
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("timestamp %q: %w", ts, err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
