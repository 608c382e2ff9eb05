package repository

import (
	"context"

	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
}
