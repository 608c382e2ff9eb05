package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría. Nombre repetido → domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	err := r.q.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).
		Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría; nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste el proveedor. Nombre repetido → domain.ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO suppliers (name, contact_info) VALUES ($1, $2) RETURNING id`,
		supplier.Name, supplier.ContactInfo,
	).Scan(&supplier.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor; nil si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `SELECT id, name, contact_info FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.ContactInfo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}
