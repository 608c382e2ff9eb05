// Package discount implementa la matemática de descuentos y la regla de elegibilidad
// por cercanía al vencimiento (servicio de dominio, sin I/O).
package discount

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// Kind tipo de descuento. El conjunto es cerrado: plano o porcentual.
type Kind string

// Tipos de descuento soportados.
const (
	KindFlat       Kind = "flat"
	KindPercentage Kind = "percentage"
)

var hundred = decimal.NewFromInt(100)

// Strategy descuento a aplicar sobre un precio. Value es un monto (plano) o un porcentaje.
type Strategy struct {
	Kind  Kind
	Value decimal.Decimal
}

// Flat descuento de monto fijo.
func Flat(amount decimal.Decimal) Strategy {
	return Strategy{Kind: KindFlat, Value: amount}
}

// Percentage descuento porcentual (20 = 20%).
func Percentage(percent decimal.Decimal) Strategy {
	return Strategy{Kind: KindPercentage, Value: percent}
}

// ParseKind interpreta el tipo de descuento recibido por transporte (HTTP, CLI).
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFlat:
		return KindFlat, nil
	case KindPercentage, "percent":
		return KindPercentage, nil
	}
	return "", domain.NewValidationError("kind", fmt.Sprintf("tipo de descuento desconocido %q", s))
}

// Validate verifica que la estrategia sea aplicable.
func (s Strategy) Validate() error {
	if s.Kind != KindFlat && s.Kind != KindPercentage {
		return domain.NewValidationError("kind", fmt.Sprintf("tipo de descuento desconocido %q", s.Kind))
	}
	if s.Value.IsNegative() {
		return domain.NewValidationError("value", "no puede ser negativo")
	}
	if s.Kind == KindPercentage && s.Value.GreaterThan(hundred) {
		return domain.NewValidationError("value", "el porcentaje no puede superar 100")
	}
	return nil
}

// Apply calcula el nuevo precio: redondeo a 2 decimales (half-up) y piso en 0.
func (s Strategy) Apply(price decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch s.Kind {
	case KindFlat:
		out = price.Sub(s.Value)
	case KindPercentage:
		out = price.Sub(price.Mul(s.Value).Div(hundred))
	default:
		out = price
	}
	out = out.Round(2)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

func (s Strategy) String() string {
	if s.Kind == KindPercentage {
		return s.Value.String() + "%"
	}
	return s.Kind.String() + " " + s.Value.StringFixed(2)
}

func (k Kind) String() string { return string(k) }

// Policy regla de descuento dinámico por cercanía al vencimiento.
type Policy struct {
	ThresholdDays int
	Percent       decimal.Decimal
}

// DefaultPolicy 20% para productos que vencen dentro de 30 días.
func DefaultPolicy() Policy {
	return Policy{ThresholdDays: 30, Percent: decimal.NewFromInt(20)}
}

// Eligible informa si faltan entre 1 y ThresholdDays días para el vencimiento.
// Los productos vencidos (0 días o menos) no califican: se limpian como stock vencido.
func (p Policy) Eligible(expiration, today time.Time) bool {
	days := entity.DaysBetween(today, expiration)
	return days > 0 && days <= p.ThresholdDays
}

// DetermineStrategy devuelve la estrategia aplicable a product, si la hay.
// Un producto ya descontado nunca vuelve a calificar.
func (p Policy) DetermineStrategy(product entity.Product, today time.Time) (Strategy, bool) {
	if product.Discounted || !p.Eligible(product.ExpirationDate, today) {
		return Strategy{}, false
	}
	return Percentage(p.Percent), true
}
