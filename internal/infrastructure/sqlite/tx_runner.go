package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.HistoryRepository,
) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewProductRepository(tx), NewHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
