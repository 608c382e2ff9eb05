// Package backend abre la persistencia configurada (PostgreSQL o SQLite) y expone
// los adaptadores que consumen el store y la fachada.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
	"github.com/jhoicas/perishables-api/internal/infrastructure/postgres"
	"github.com/jhoicas/perishables-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/perishables-api/pkg/config"
)

// Backend adaptadores listos para usar. Close libera las conexiones.
type Backend struct {
	Driver     string
	Tx         inventory.TxRunner
	Categories repository.CategoryRepository
	Suppliers  repository.SupplierRepository
	Close      func()
}

// Open conecta al backend de cfg.Driver y asegura el esquema.
func Open(ctx context.Context, cfg config.DBConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Driver:     cfg.Driver,
			Tx:         postgres.NewTxRunner(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Suppliers:  postgres.NewSupplierRepository(pool),
			Close:      pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Backend{
			Driver:     cfg.Driver,
			Tx:         sqlite.NewTxRunner(db),
			Categories: sqlite.NewCategoryRepository(db),
			Suppliers:  sqlite.NewSupplierRepository(db),
			Close:      func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("driver %q no soportado", cfg.Driver)
}
