// Package validation contiene las reglas de campo de los productos perecederos.
// Son funciones puras: sin I/O y seguras para uso concurrente.
package validation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
)

// MinPrice es el precio mínimo aceptado.
var MinPrice = decimal.RequireFromString("0.01")

// MaxStock es el stock máximo por producto (columna INTEGER en PostgreSQL).
const MaxStock = math.MaxInt32

// ValidateProduct verifica los invariantes de campo de p.
// Devuelve *domain.ValidationError para el primer campo inválido y, si todos los campos
// son válidos pero el vencimiento es anterior a today, *domain.ExpiredError.
func ValidateProduct(p entity.Product, today time.Time) error {
	if p.ID < -1 {
		return domain.NewValidationError("id", "debe ser mayor o igual a -1")
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "no puede estar vacío")
	}
	if p.Price.LessThan(MinPrice) {
		return domain.NewValidationError("price", "debe ser al menos "+MinPrice.StringFixed(2))
	}
	if p.Stock < 0 {
		return domain.NewValidationError("stock", "no puede ser negativo")
	}
	if p.Stock > MaxStock {
		return stockOverflow()
	}
	if p.CategoryID != nil && *p.CategoryID < 1 {
		return domain.NewValidationError("categoryId", "debe ser al menos 1")
	}
	if p.SupplierID != nil && *p.SupplierID < 1 {
		return domain.NewValidationError("supplierId", "debe ser al menos 1")
	}
	if p.ExpirationDate.IsZero() {
		return domain.NewValidationError("expirationDate", "es requerida")
	}
	if p.IsExpired(today) {
		return &domain.ExpiredError{Name: p.Name, ExpirationDate: entity.DateOf(p.ExpirationDate)}
	}
	return nil
}

// AddStock suma delta a stock. Devuelve ValidationError("stock") si el resultado supera MaxStock.
// Un resultado negativo no se valida aquí: cada llamador decide su error.
func AddStock(stock, delta int) (int, error) {
	if delta > 0 && stock > MaxStock-delta {
		return 0, stockOverflow()
	}
	return stock + delta, nil
}

func stockOverflow() error {
	return domain.NewValidationError("stock", "no puede superar "+strconv.Itoa(MaxStock))
}

// ValidateID exige un id persistido (> 0).
func ValidateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "debe ser mayor que 0")
	}
	return nil
}
