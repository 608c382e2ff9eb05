package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, price, stock, expiration_date, discounted, category_id, supplier_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// FindByKey busca el producto con la misma clave de deduplicación.
func (r *ProductRepo) FindByKey(ctx context.Context, key entity.DedupKey) (*entity.Product, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE name = $1 AND price = $2 AND expiration_date = $3
		 ORDER BY id LIMIT 1`,
		key.Name, key.Price, key.ExpirationDate,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product by key: %w", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Create persiste un nuevo producto y asigna product.ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if err := r.checkReferences(ctx, product); err != nil {
		return err
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (name, price, stock, expiration_date, discounted, category_id, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		product.Name, product.Price, product.Stock, product.ExpirationDate,
		product.Discounted, product.CategoryID, product.SupplierID,
	).Scan(&product.ID)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

// Update reemplaza todas las columnas del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if err := r.checkReferences(ctx, product); err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, price = $3, stock = $4, expiration_date = $5,
		discounted = $6, category_id = $7, supplier_id = $8
		WHERE id = $1`,
		product.ID, product.Name, product.Price, product.Stock, product.ExpirationDate,
		product.Discounted, product.CategoryID, product.SupplierID,
	)
	if err != nil {
		return mapWriteError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// Delete elimina un producto; false si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List devuelve todos los productos ordenados por id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
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

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.ExpirationDate,
		&p.Discounted, &p.CategoryID, &p.SupplierID); err != nil {
		return nil, err
	}
	p.ExpirationDate = entity.DateOf(p.ExpirationDate)
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
		err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+ref.table+` WHERE id = $1)`, *ref.id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check %s: %w", ref.field, err)
		}
		if !exists {
			return domain.NewValidationError(ref.field, "referencia inexistente")
		}
	}
	return nil
}

// fkFields nombres por defecto de las llaves foráneas de products.
var fkFields = map[string]string{
	"products_category_id_fkey": "categoryId",
	"products_supplier_id_fkey": "supplierId",
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if isForeignKeyViolation(err) && errors.As(err, &pgErr) {
		if field, ok := fkFields[pgErr.ConstraintName]; ok {
			return domain.NewValidationError(field, "referencia inexistente")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
