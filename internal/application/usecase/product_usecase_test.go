package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perishables-api/internal/application/discount"
	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain"
	policy "github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/infrastructure/sqlite"
)

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) *usecase.ProductUseCase {
	t.Helper()
	db := sqlite.NewTestDB(t)
	store := inventory.NewStore(sqlite.NewTxRunner(db), inventory.WithClock(func() time.Time { return today }))
	engine := discount.NewEngine(store, policy.DefaultPolicy())
	return usecase.NewProductUseCase(store, engine,
		sqlite.NewCategoryRepository(db), sqlite.NewSupplierRepository(db))
}

func request(name, price string, stock, days int) dto.ProductRequest {
	return dto.ProductRequest{
		Name:           name,
		Price:          decimal.RequireFromString(price),
		Stock:          stock,
		ExpirationDate: today.AddDate(0, 0, days).Format(time.DateOnly),
	}
}

func TestProductUseCase_MilkLifecycle(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	added, err := uc.AddProduct(ctx, request("Milk", "4.50", 100, 10))
	require.NoError(t, err)
	assert.True(t, added.Created)
	assert.Equal(t, 10, added.DaysUntilExpiry)

	merged, err := uc.AddProduct(ctx, request("Milk", "4.50", 10, 10))
	require.NoError(t, err)
	assert.False(t, merged.Created)
	assert.Equal(t, 110, merged.Stock)

	run, err := uc.ApplyDynamicDiscounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Applied)

	p, err := uc.GetProduct(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.60", p.Price)
	assert.True(t, p.Discounted)

	p, err = uc.AdjustStock(ctx, added.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Stock)

	_, err = uc.AdjustStock(ctx, added.ID, -101)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	hist, err := uc.ProductHistory(ctx, added.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(hist))
	for _, h := range hist {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []string{"ADD", "UPDATE", "UPDATE", "STOCK_ADJUST"}, actions)

	require.NoError(t, uc.DeleteProduct(ctx, added.ID))
	_, err = uc.GetProduct(ctx, added.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	hist, err = uc.ProductHistory(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "DELETE", hist[len(hist)-1].Action)
}

func TestProductUseCase_AddProductRejects(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	_, err := uc.AddProduct(ctx, request("Old", "1.00", 1, -1))
	assert.ErrorIs(t, err, domain.ErrExpired)

	bad := request("Bad", "1.00", 1, 5)
	bad.ExpirationDate = "05/06/2025"
	_, err = uc.AddProduct(ctx, bad)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expirationDate", vErr.Field)

	cheap := request("Cheap", "0.00", 1, 5)
	_, err = uc.AddProduct(ctx, cheap)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "price", vErr.Field)

	orphan := request("Orphan", "1.00", 1, 5)
	missing := int64(77)
	orphan.CategoryID = &missing
	_, err = uc.AddProduct(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_Searches(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	for _, r := range []dto.ProductRequest{
		request("Whole Milk", "4.50", 1, 3),
		request("milk powder", "9.00", 1, 60),
		request("Bread", "2.00", 1, 1),
	} {
		_, err := uc.AddProduct(ctx, r)
		require.NoError(t, err)
	}

	found, err := uc.FindByName(ctx, "MILK")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = uc.FindByName(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	expiring, err := uc.FindExpiringBefore(ctx, today.AddDate(0, 0, 3).Format(time.DateOnly))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Bread", expiring[0].Name)

	_, err = uc.FindExpiringBefore(ctx, "tomorrow")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_UpdateAndDiscounts(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	added, err := uc.AddProduct(ctx, request("Cheese", "10.00", 5, 90))
	require.NoError(t, err)

	_, err = uc.UpdateProduct(ctx, 0, request("Cheese", "10.00", 5, 90))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.UpdateProduct(ctx, added.ID, request("Aged Cheese", "12.00", 5, 20))
	require.NoError(t, err)
	assert.Equal(t, "Aged Cheese", updated.Name)

	single, err := uc.ApplyDynamicDiscount(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.60", single.Price)

	manual, err := uc.ApplyManualDiscount(ctx, added.ID, dto.ManualDiscountRequest{Kind: "flat", Value: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "8.60", manual.Price)

	_, err = uc.ApplyManualDiscount(ctx, added.ID, dto.ManualDiscountRequest{Kind: "bogo", Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyDynamicDiscount(ctx, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_ImportProducts(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	bad := request("", "1.00", 1, 5)
	res, err := uc.ImportProducts(ctx, []dto.ProductRequest{
		request("Milk", "4.50", 10, 10),
		request("Milk", "4.50", 5, 10),
		request("Yogurt", "1.20", 3, -2),
		bad,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 4, res.Failed[0].Row)

	all, err := uc.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 15, all[0].Stock)
}

func TestProductUseCase_Catalog(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	c, err := uc.AddCategory(ctx, dto.CategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	assert.Positive(t, c.ID)

	_, err = uc.AddCategory(ctx, dto.CategoryRequest{Name: "Lácteos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.AddCategory(ctx, dto.CategoryRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	contact := "ventas@granja.co"
	s, err := uc.AddSupplier(ctx, dto.SupplierRequest{Name: "Granja", ContactInfo: &contact})
	require.NoError(t, err)
	require.NotNil(t, s.ContactInfo)
	assert.Equal(t, contact, *s.ContactInfo)

	r := request("Milk", "4.50", 1, 10)
	r.CategoryID = &c.ID
	r.SupplierID = &s.ID
	added, err := uc.AddProduct(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, c.ID, *added.CategoryID)

	gotC, err := uc.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lácteos", gotC.Name)
	_, err = uc.GetCategory(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetCategory(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	gotS, err := uc.GetSupplier(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Granja", gotS.Name)
	_, err = uc.GetSupplier(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ClientCannotSetDiscounted(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	r := request("Cheese", "10.00", 5, 90)
	r.Discounted = true
	added, err := uc.AddProduct(ctx, r)
	require.NoError(t, err)
	assert.False(t, added.Discounted)

	updated, err := uc.UpdateProduct(ctx, added.ID, r)
	require.NoError(t, err)
	assert.False(t, updated.Discounted)

	// Cerca del vencimiento sigue siendo elegible para el descuento dinámico.
	near := request("Cheese", "10.00", 5, 10)
	near.Discounted = true
	updated, err = uc.UpdateProduct(ctx, added.ID, near)
	require.NoError(t, err)
	single, err := uc.ApplyDynamicDiscount(ctx, updated.ID)
	require.NoError(t, err)
	assert.True(t, single.Discounted)
	assert.Equal(t, "8.00", single.Price)

	// La carga masiva sí restaura el indicador.
	imported := request("Yogurt", "1.20", 3, 5)
	imported.Discounted = true
	res, err := uc.ImportProducts(ctx, []dto.ProductRequest{imported})
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)
	all, err := uc.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].Discounted)
}

func TestProductUseCase_ClearExpiredStock(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	_, err := uc.AddProduct(ctx, request("Milk", "4.50", 3, 2))
	require.NoError(t, err)

	res, err := uc.ClearExpiredStock(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Cleared)
	assert.Empty(t, res.Products)
}
