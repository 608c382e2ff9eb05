package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, price, stock, expiration_date, discounted, category_id, supplier_id`

// ProductRepo implementación de ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// FindByKey busca el producto con la misma clave de deduplicación.
func (r *ProductRepo) FindByKey(ctx context.Context, key entity.DedupKey) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE name = ? AND price = ? AND expiration_date = ?
		 ORDER BY id LIMIT 1`,
		key.Name, key.Price.StringFixed(2), key.ExpirationDate.Format(dateLayout),
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by key: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Create inserta el producto y asigna product.ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if err := r.checkReferences(ctx, product); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO products (name, price, stock, expiration_date, discounted, category_id, supplier_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.Name, product.Price.StringFixed(2), product.Stock,
		product.ExpirationDate.Format(dateLayout), product.Discounted,
		nullID(product.CategoryID), nullID(product.SupplierID),
	)
	if err != nil {
		return r.mapWriteError(ctx, "insert product", product, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	product.ID = id
	return nil
}

// Update reemplaza todas las columnas del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if err := r.checkReferences(ctx, product); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, stock = ?, expiration_date = ?, discounted = ?,
		 category_id = ?, supplier_id = ? WHERE id = ?`,
		product.Name, product.Price.StringFixed(2), product.Stock,
		product.ExpirationDate.Format(dateLayout), product.Discounted,
		nullID(product.CategoryID), nullID(product.SupplierID), product.ID,
	)
	if err != nil {
		return r.mapWriteError(ctx, "update product", product, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// Delete elimina el producto; false si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return n > 0, nil
}

// List devuelve todos los productos ordenados por id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p                    entity.Product
		price, expiration    string
		categoryID, supplier sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Stock, &expiration, &p.Discounted, &categoryID, &supplier); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("price %q: %w", price, err)
	}
	if p.ExpirationDate, err = entity.ParseDate(expiration); err != nil {
		return nil, fmt.Errorf("expiration_date %q: %w", expiration, err)
	}
	if categoryID.Valid {
		p.CategoryID = entity.Ref(categoryID.Int64)
	}
	if supplier.Valid {
		p.SupplierID = entity.Ref(supplier.Int64)
	}
	return &p, nil
}

// checkReferences devuelve ValidationError sobre categoryId o supplierId si la fila referenciada no existe.
func (r *ProductRepo) checkReferences(ctx context.Context, product *entity.Product) error {
	refs := []struct {
		field, table string
		id           *int64
	}{
		{"categoryId", "categories", product.CategoryID},
		{"supplierId", "suppliers", product.SupplierID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		var exists bool
		err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+ref.table+` WHERE id = ?)`, *ref.id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check %s: %w", ref.field, err)
		}
		if !exists {
			return domain.NewValidationError(ref.field, "referencia inexistente")
		}
	}
	return nil
}

func (r *ProductRepo) mapWriteError(ctx context.Context, op string, product *entity.Product, err error) error {
	if isForeignKeyViolation(err) {
		if refErr := r.checkReferences(ctx, product); refErr != nil {
			return refErr
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
