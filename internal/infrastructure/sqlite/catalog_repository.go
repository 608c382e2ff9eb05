package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CategoryRepo implementación de CategoryRepository sobre SQLite.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create inserta la categoría. Nombre repetido → domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	res, err := r.q.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	if category.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría; nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// SupplierRepo implementación de SupplierRepository sobre SQLite.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create inserta el proveedor. Nombre repetido → domain.ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO suppliers (name, contact_info) VALUES (?, ?)`, supplier.Name, nullString(supplier.ContactInfo))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	if supplier.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("supplier id: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor; nil si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	var (
		s       entity.Supplier
		contact sql.NullString
	)
	err := r.q.QueryRowContext(ctx, `SELECT id, name, contact_info FROM suppliers WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &contact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if contact.Valid {
		s.ContactInfo = &contact.String
	}
	return &s, nil
}
