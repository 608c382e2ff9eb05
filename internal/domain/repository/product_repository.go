package repository

import (
	"context"

	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando no hay fila.
type ProductRepository interface {
	FindByKey(ctx context.Context, key entity.DedupKey) (*entity.Product, error)
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
