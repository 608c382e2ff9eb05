package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
// Los errores tipados de abajo se comparan contra estos sentinelas con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrExpired           = errors.New("producto vencido")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInfrastructure    = errors.New("falla de infraestructura")
)

// ValidationError indica que un campo no cumple su restricción.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ExpiredError indica que la fecha de vencimiento ya pasó.
// Es distinto de ValidationError: algunos flujos (importación) lo toleran como omisión.
type ExpiredError struct {
	Name           string
	ExpirationDate time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("producto '%s' vencido desde %s", e.Name, e.ExpirationDate.Format(time.DateOnly))
}

func (e *ExpiredError) Is(target error) bool { return target == ErrExpired }

// NotFoundError indica que no existe un registro con el id referenciado.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s con id %d no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StockUnderflowError indica que un ajuste dejaría el stock en negativo.
type StockUnderflowError struct {
	ProductID int64
	Current   int
	Delta     int
}

func (e *StockUnderflowError) Error() string {
	return fmt.Sprintf("ajuste inválido para producto %d: %d + (%d) = %d",
		e.ProductID, e.Current, e.Delta, e.Current+e.Delta)
}

func (e *StockUnderflowError) Is(target error) bool { return target == ErrInsufficientStock }

// InfrastructureError envuelve una falla del backend de persistencia.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

func (e *InfrastructureError) Is(target error) bool { return target == ErrInfrastructure }

// IsDomainError informa si err pertenece a la taxonomía de dominio (no de infraestructura).
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrDuplicate)
}
