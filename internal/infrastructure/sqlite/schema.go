package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Precios como TEXT con dos decimales, fechas como TEXT YYYY-MM-DD.
// product_history no referencia products: la auditoría sobrevive al borrado del producto.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS suppliers (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL UNIQUE,
    contact_info TEXT
);

CREATE TABLE IF NOT EXISTS products (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    price           TEXT NOT NULL,
    stock           INTEGER NOT NULL CHECK (stock >= 0),
    expiration_date TEXT NOT NULL,
    discounted      INTEGER NOT NULL DEFAULT 0,
    category_id     INTEGER REFERENCES categories(id),
    supplier_id     INTEGER REFERENCES suppliers(id)
);

CREATE INDEX IF NOT EXISTS idx_products_key
    ON products(name, price, expiration_date);

CREATE TABLE IF NOT EXISTS product_history (
    id         INTEGER PRIMARY KEY,
    product_id INTEGER NOT NULL,
    action     TEXT NOT NULL CHECK (action IN ('ADD', 'UPDATE', 'DELETE', 'STOCK_ADJUST')),
    old_value  TEXT,
    new_value  TEXT,
    timestamp  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_product_history_product
    ON product_history(product_id);
`

// EnsureSchema crea las tablas si no existen. Idempotente.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema sqlite: %w", err)
	}
	return nil
}
