package sqlite

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestDB crea una base en memoria con el esquema aplicado; se cierra al terminar el test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("abrir base de test: %v", err)
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("crear esquema de test: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
