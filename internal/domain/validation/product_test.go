package validation_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perishables-api/internal/domain"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/validation"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func validProduct() entity.Product {
	return entity.Product{
		Name:           "Leche",
		Price:          decimal.RequireFromString("4.50"),
		Stock:          100,
		ExpirationDate: entity.DateOf(today.AddDate(0, 0, 30)),
		CategoryID:     entity.Ref(1),
		SupplierID:     entity.Ref(1),
	}
}

func TestValidateProduct_Valido(t *testing.T) {
	assert.NoError(t, validation.ValidateProduct(validProduct(), today))
}

func TestValidateProduct_CamposInvalidos(t *testing.T) {
	cases := []struct {
		name  string
		field string
		mut   func(p *entity.Product)
	}{
		{"id menor a -1", "id", func(p *entity.Product) { p.ID = -2 }},
		{"nombre vacío", "name", func(p *entity.Product) { p.Name = "" }},
		{"nombre solo espacios", "name", func(p *entity.Product) { p.Name = "   \t" }},
		{"precio cero", "price", func(p *entity.Product) { p.Price = decimal.Zero }},
		{"precio bajo mínimo", "price", func(p *entity.Product) { p.Price = decimal.RequireFromString("0.009") }},
		{"stock negativo", "stock", func(p *entity.Product) { p.Stock = -1 }},
		{"stock sobre el máximo", "stock", func(p *entity.Product) { p.Stock = validation.MaxStock + 1 }},
		{"categoría cero", "categoryId", func(p *entity.Product) { p.CategoryID = entity.Ref(0) }},
		{"proveedor negativo", "supplierId", func(p *entity.Product) { p.SupplierID = entity.Ref(-5) }},
		{"sin vencimiento", "expirationDate", func(p *entity.Product) { p.ExpirationDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mut(&p)
			err := validation.ValidateProduct(p, today)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateProduct_LimitesAceptados(t *testing.T) {
	p := validProduct()
	p.ID = -1
	p.Price = validation.MinPrice
	p.Stock = 0
	p.CategoryID = nil
	p.SupplierID = nil
	p.ExpirationDate = entity.DateOf(today) // vence hoy: no está vencido
	assert.NoError(t, validation.ValidateProduct(p, today))
}

func TestValidateProduct_Vencido(t *testing.T) {
	p := validProduct()
	p.ExpirationDate = entity.DateOf(today.AddDate(0, 0, -1))

	err := validation.ValidateProduct(p, today)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExpired)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput, "vencido no es un error de validación genérico")

	var expired *domain.ExpiredError
	require.True(t, errors.As(err, &expired))
	assert.Equal(t, "Leche", expired.Name)
}

func TestValidateProduct_CampoInvalidoPrevaleceSobreVencimiento(t *testing.T) {
	p := validProduct()
	p.Stock = -3
	p.ExpirationDate = entity.DateOf(today.AddDate(0, 0, -10))

	err := validation.ValidateProduct(p, today)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validation.ValidateID(1))
	assert.ErrorIs(t, validation.ValidateID(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, validation.ValidateID(-7), domain.ErrInvalidInput)
}

func TestAddStock(t *testing.T) {
	got, err := validation.AddStock(10, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, got)

	got, err = validation.AddStock(10, -15)
	require.NoError(t, err)
	assert.Equal(t, -5, got)

	got, err = validation.AddStock(validation.MaxStock-1, 1)
	require.NoError(t, err)
	assert.Equal(t, validation.MaxStock, got)

	_, err = validation.AddStock(validation.MaxStock, 1)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Field)

	_, err = validation.AddStock(10, math.MaxInt-5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
