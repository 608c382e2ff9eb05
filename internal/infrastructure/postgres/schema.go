package postgres

import (
	"context"
	"fmt"
)

// product_history no referencia products: la auditoría sobrevive al borrado del producto.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS suppliers (
    id           BIGSERIAL PRIMARY KEY,
    name         TEXT NOT NULL UNIQUE,
    contact_info TEXT
);

CREATE TABLE IF NOT EXISTS products (
    id              BIGSERIAL PRIMARY KEY,
    name            TEXT NOT NULL,
    price           NUMERIC(12,2) NOT NULL CHECK (price >= 0),
    stock           INTEGER NOT NULL CHECK (stock >= 0),
    expiration_date DATE NOT NULL,
    discounted      BOOLEAN NOT NULL DEFAULT FALSE,
    category_id     BIGINT REFERENCES categories(id),
    supplier_id     BIGINT REFERENCES suppliers(id)
);

CREATE INDEX IF NOT EXISTS idx_products_key ON products(name, price, expiration_date);

CREATE TABLE IF NOT EXISTS product_history (
    id         BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL,
    action     TEXT NOT NULL CHECK (action IN ('ADD', 'UPDATE', 'DELETE', 'STOCK_ADJUST')),
    old_value  TEXT,
    new_value  TEXT,
    timestamp  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_product_history_product ON product_history(product_id);
`

// EnsureSchema crea las tablas si no existen. Idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema postgres: %w", err)
	}
	return nil
}
