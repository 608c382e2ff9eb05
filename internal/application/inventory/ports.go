package inventory

import (
	"context"

	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la mutación del producto y su entrada de auditoría se confirmen juntas:
// si fn devuelve error (o el commit falla) no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.HistoryRepository,
	) error) error
}
