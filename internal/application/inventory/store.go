package inventory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/perishables-api/internal/application/audit"
	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
	"github.com/jhoicas/perishables-api/internal/domain/validation"
)

// Store es la única fuente de verdad del estado de los productos.
// Todas sus operaciones (lectura y escritura) se serializan con un único mutex por instancia:
// ninguna lectura observa una mutación a medias y ninguna mutación se intercala con otra.
// Los valores devueltos son copias; el llamador no puede alterar el estado interno.
type Store struct {
	mu  sync.Mutex
	tx  TxRunner
	now func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj (tests y jobs con fecha fija).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore construye el store sobre el runner transaccional del backend.
func NewStore(tx TxRunner, opts ...Option) *Store {
	s := &Store{tx: tx, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today devuelve la fecha de calendario actual según el reloj del store.
func (s *Store) Today() time.Time {
	return entity.DateOf(s.now())
}

// UpsertResult resultado de Upsert.
type UpsertResult struct {
	Product entity.Product
	Created bool // true: fila nueva (ADD); false: stock acumulado sobre la fila existente (UPDATE)
	Skipped bool // producto vencido con throwOnExpired=false: no se escribió nada
}

// Upsert recibe mercancía. Si ya existe un producto con la misma clave (nombre, precio,
// vencimiento) acumula el stock y sobrescribe categoría/proveedor; si no, crea la fila.
// Un producto vencido devuelve *domain.ExpiredError, o se omite sin error si throwOnExpired es false.
func (s *Store) Upsert(ctx context.Context, p entity.Product, throwOnExpired bool) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Se valida el valor recibido: el redondeo no debe convertir 0.005 en un precio válido.
	if err := validation.ValidateProduct(p, s.now()); err != nil {
		if !throwOnExpired && errors.Is(err, domain.ErrExpired) {
			return UpsertResult{Product: normalize(p), Skipped: true}, nil
		}
		return UpsertResult{}, err
	}
	in := normalize(p)

	var res UpsertResult
	err := s.run(ctx, "upsert product", func(products repository.ProductRepository, history *audit.Log) error {
		existing, err := products.FindByKey(ctx, in.Key())
		if err != nil {
			return err
		}
		if existing == nil {
			created := in.Clone()
			created.ID = 0
			if err := products.Create(ctx, &created); err != nil {
				return err
			}
			if _, err := history.Append(ctx, created.ID, entity.ActionAdd, nil, audit.Describe(created.Price, created.Stock)); err != nil {
				return err
			}
			res = UpsertResult{Product: created, Created: true}
			return nil
		}

		stock, err := validation.AddStock(existing.Stock, in.Stock)
		if err != nil {
			return err
		}
		merged := existing.Clone()
		merged.Stock = stock
		merged.Discounted = existing.Discounted || in.Discounted
		merged.CategoryID = in.Clone().CategoryID
		merged.SupplierID = in.Clone().SupplierID
		if err := products.Update(ctx, &merged); err != nil {
			return err
		}
		if _, err := history.Append(ctx, merged.ID, entity.ActionUpdate,
			audit.DescribeStock(existing.Stock), audit.DescribeStock(merged.Stock)); err != nil {
			return err
		}
		res = UpsertResult{Product: merged}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}

// GetAll devuelve todos los productos ordenados por id. Con throwOnExpired, si alguno está
// vencido aborta con *domain.ExpiredError en lugar de devolver una lista parcial.
func (s *Store) GetAll(ctx context.Context, throwOnExpired bool) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.Product
	err := s.run(ctx, "list products", func(products repository.ProductRepository, _ *audit.Log) error {
		list, err := products.List(ctx)
		if err != nil {
			return err
		}
		today := s.now()
		out = make([]entity.Product, 0, len(list))
		for _, p := range list {
			if throwOnExpired && p.IsExpired(today) {
				return &domain.ExpiredError{Name: p.Name, ExpirationDate: p.ExpirationDate}
			}
			out = append(out, p.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID devuelve un producto o *domain.NotFoundError.
func (s *Store) GetByID(ctx context.Context, id int64) (entity.Product, error) {
	if err := validation.ValidateID(id); err != nil {
		return entity.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out entity.Product
	err := s.run(ctx, "get product", func(products repository.ProductRepository, _ *audit.Log) error {
		p, err := mustGet(ctx, products, id)
		if err != nil {
			return err
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// Update reemplaza los campos de un producto existente y registra precio/stock anterior y nuevo.
// El indicador Discounted nunca vuelve a false.
func (s *Store) Update(ctx context.Context, p entity.Product) (entity.Product, error) {
	if err := validation.ValidateID(p.ID); err != nil {
		return entity.Product{}, err
	}
	if err := validation.ValidateProduct(p, s.now()); err != nil {
		return entity.Product{}, err
	}
	in := normalize(p)
	return s.Modify(ctx, in.ID, func(entity.Product) (entity.Product, bool, error) {
		return in, true, nil
	})
}

// ModifyFunc recibe el valor actual y devuelve el nuevo valor y si hubo cambios.
type ModifyFunc func(current entity.Product) (entity.Product, bool, error)

// Modify lee, transforma y escribe un producto dentro de la misma sección crítica.
// Si fn informa que no hubo cambios, devuelve el valor actual sin escribir.
func (s *Store) Modify(ctx context.Context, id int64, fn ModifyFunc) (entity.Product, error) {
	if err := validation.ValidateID(id); err != nil {
		return entity.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out entity.Product
	err := s.run(ctx, "update product", func(products repository.ProductRepository, history *audit.Log) error {
		current, err := mustGet(ctx, products, id)
		if err != nil {
			return err
		}
		next, changed, err := fn(current.Clone())
		if err != nil {
			return err
		}
		if !changed {
			out = current.Clone()
			return nil
		}
		next = normalize(next)
		next.ID = current.ID
		next.Discounted = current.Discounted || next.Discounted
		if err := validation.ValidateProduct(next, s.now()); err != nil {
			return err
		}
		if err := products.Update(ctx, &next); err != nil {
			return err
		}
		if _, err := history.Append(ctx, next.ID, entity.ActionUpdate,
			audit.Describe(current.Price, current.Stock), audit.Describe(next.Price, next.Stock)); err != nil {
			return err
		}
		out = next.Clone()
		return nil
	})
	if err != nil {
		return entity.Product{}, err
	}
	return out, nil
}

// Delete elimina un producto y registra DELETE con valores nulos.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := validation.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run(ctx, "delete product", func(products repository.ProductRepository, history *audit.Log) error {
		deleted, err := products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &domain.NotFoundError{Resource: "producto", ID: id}
		}
		_, err = history.Append(ctx, id, entity.ActionDelete, nil, nil)
		return err
	})
}

// AdjustStock suma delta al stock. Si el resultado fuera negativo devuelve
// *domain.StockUnderflowError sin escribir nada.
func (s *Store) AdjustStock(ctx context.Context, id int64, delta int) (entity.Product, error) {
	if err := validation.ValidateID(id); err != nil {
		return entity.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out entity.Product
	err := s.run(ctx, "adjust stock", func(products repository.ProductRepository, history *audit.Log) error {
		current, err := mustGet(ctx, products, id)
		if err != nil {
			return err
		}
		adjusted, err := adjust(ctx, products, history, current, delta)
		if err != nil {
			return err
		}
		out = adjusted
		return nil
	})
	if err != nil {
		return entity.Product{}, err
	}
	return out, nil
}

// ClearExpired deja en cero el stock de cada producto vencido antes de today con stock > 0,
// una entrada STOCK_ADJUST por producto. No toca el indicador Discounted.
func (s *Store) ClearExpired(ctx context.Context, today time.Time) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared []entity.Product
	err := s.run(ctx, "clear expired stock", func(products repository.ProductRepository, history *audit.Log) error {
		list, err := products.List(ctx)
		if err != nil {
			return err
		}
		for _, p := range list {
			if !p.IsExpired(today) || p.Stock <= 0 {
				continue
			}
			adjusted, err := adjust(ctx, products, history, *p, -p.Stock)
			if err != nil {
				return err
			}
			cleared = append(cleared, adjusted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

// History devuelve la auditoría de un producto ordenada por id.
func (s *Store) History(ctx context.Context, productID int64) ([]entity.HistoryRecord, error) {
	if err := validation.ValidateID(productID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entity.HistoryRecord
	err := s.tx.Run(ctx, func(_ repository.ProductRepository, history repository.HistoryRepository) error {
		list, err := history.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = make([]entity.HistoryRecord, 0, len(list))
		for _, r := range list {
			out = append(out, *r)
		}
		return nil
	})
	if err != nil {
		return nil, wrapInfra("list history", err)
	}
	return out, nil
}

// run ejecuta fn en una transacción con un audit.Log atado a ella.
// Los errores que no son de dominio se envuelven como *domain.InfrastructureError.
func (s *Store) run(ctx context.Context, op string, fn func(repository.ProductRepository, *audit.Log) error) error {
	err := s.tx.Run(ctx, func(products repository.ProductRepository, history repository.HistoryRepository) error {
		return fn(products, audit.New(history, s.now))
	})
	return wrapInfra(op, err)
}

func wrapInfra(op string, err error) error {
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	return &domain.InfrastructureError{Op: op, Err: err}
}

func mustGet(ctx context.Context, products repository.ProductRepository, id int64) (entity.Product, error) {
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return entity.Product{}, err
	}
	if p == nil {
		return entity.Product{}, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return *p, nil
}

func adjust(ctx context.Context, products repository.ProductRepository, history *audit.Log, current entity.Product, delta int) (entity.Product, error) {
	newStock, err := validation.AddStock(current.Stock, delta)
	if err != nil {
		return entity.Product{}, err
	}
	if newStock < 0 {
		return entity.Product{}, &domain.StockUnderflowError{ProductID: current.ID, Current: current.Stock, Delta: delta}
	}
	next := current.Clone()
	next.Stock = newStock
	if err := products.Update(ctx, &next); err != nil {
		return entity.Product{}, err
	}
	if _, err := history.Append(ctx, next.ID, entity.ActionStockAdjust,
		audit.DescribeStock(current.Stock), audit.DescribeStock(next.Stock)); err != nil {
		return entity.Product{}, err
	}
	return next, nil
}

// normalize copia p con precio a 2 decimales (half-up), nombre sin espacios extremos
// y vencimiento como fecha de calendario, para que la clave de deduplicación sea estable.
func normalize(p entity.Product) entity.Product {
	out := p.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.Price = out.Price.Round(2)
	if !out.ExpirationDate.IsZero() {
		out.ExpirationDate = entity.DateOf(out.ExpirationDate)
	}
	return out
}
