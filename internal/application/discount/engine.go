// Package discount aplica la política de descuentos sobre el inventario persistido.
package discount

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/domain"
	policy "github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// Engine aplica descuentos dinámicos y manuales. Cada decisión (elegibilidad + escritura)
// se toma dentro de Store.Modify, así dos llamadas concurrentes nunca descuentan dos veces.
type Engine struct {
	store  *inventory.Store
	policy policy.Policy
	log    zerolog.Logger
}

// Option configura el Engine.
type Option func(*Engine)

// WithLogger asigna el logger (por defecto zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine construye el motor de descuentos.
func NewEngine(store *inventory.Store, p policy.Policy, opts ...Option) *Engine {
	e := &Engine{store: store, policy: p, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyAll recorre el inventario y descuenta los productos elegibles. Devuelve cuántos cambiaron.
// Un producto borrado entre el listado y su actualización se omite, igual que uno cuyo precio
// descontado no pasa la validación (p.ej. redondea a 0.00); ninguno de los dos aborta la pasada.
func (e *Engine) ApplyAll(ctx context.Context) (int, error) {
	runID := uuid.New().String()
	log := e.log.With().Str("run_id", runID).Logger()

	products, err := e.store.GetAll(ctx, false)
	if err != nil {
		return 0, err
	}
	today := e.store.Today()

	count := 0
	for _, p := range products {
		if _, ok := e.policy.DetermineStrategy(p, today); !ok {
			continue
		}
		_, changed, err := e.applyPolicy(ctx, p.ID)
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Int64("product_id", p.ID).Msg("producto eliminado durante el descuento, se omite")
			continue
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			log.Warn().Err(err).Int64("product_id", p.ID).Msg("precio descontado inválido, se omite")
			continue
		}
		if err != nil {
			log.Error().Err(err).Int64("product_id", p.ID).Int("applied", count).Msg("descuento dinámico interrumpido")
			return count, err
		}
		if changed {
			count++
		}
	}
	log.Info().Int("applied", count).Int("scanned", len(products)).Msg("descuentos dinámicos aplicados")
	return count, nil
}

// ApplyOne aplica la política a un producto. Si no califica devuelve el producto sin cambios.
func (e *Engine) ApplyOne(ctx context.Context, id int64) (entity.Product, error) {
	result, applied, err := e.applyPolicy(ctx, id)
	if err != nil {
		return entity.Product{}, err
	}
	if applied {
		e.log.Info().Int64("product_id", id).Str("price", result.Price.StringFixed(2)).Msg("descuento dinámico aplicado")
	} else {
		e.log.Debug().Int64("product_id", id).Msg("producto no elegible para descuento")
	}
	return result, nil
}

// ApplyManual aplica s una vez, sin regla de elegibilidad, y marca el producto como descontado.
func (e *Engine) ApplyManual(ctx context.Context, id int64, s policy.Strategy) (entity.Product, error) {
	if err := s.Validate(); err != nil {
		return entity.Product{}, err
	}
	result, err := e.store.Modify(ctx, id, func(current entity.Product) (entity.Product, bool, error) {
		return discounted(current, s), true, nil
	})
	if err != nil {
		return entity.Product{}, err
	}
	e.log.Info().Int64("product_id", id).Str("strategy", s.String()).Str("price", result.Price.StringFixed(2)).Msg("descuento manual aplicado")
	return result, nil
}

func (e *Engine) applyPolicy(ctx context.Context, id int64) (entity.Product, bool, error) {
	today := e.store.Today()
	changed := false
	result, err := e.store.Modify(ctx, id, func(current entity.Product) (entity.Product, bool, error) {
		s, ok := e.policy.DetermineStrategy(current, today)
		if !ok {
			return current, false, nil
		}
		changed = true
		return discounted(current, s), true, nil
	})
	return result, changed, err
}

func discounted(p entity.Product, s policy.Strategy) entity.Product {
	p.Price = s.Apply(p.Price)
	p.Discounted = true
	return p
}
