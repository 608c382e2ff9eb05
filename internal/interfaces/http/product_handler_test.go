package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perishables-api/internal/application/discount"
	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
	policy "github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/infrastructure/pdf"
	"github.com/jhoicas/perishables-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/perishables-api/internal/infrastructure/xmlreport"
	apphttp "github.com/jhoicas/perishables-api/internal/interfaces/http"
)

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newAPI(t *testing.T, secret string) *fiber.App {
	t.Helper()
	db := sqlite.NewTestDB(t)
	store := inventory.NewStore(sqlite.NewTxRunner(db), inventory.WithClock(func() time.Time { return today }))
	engine := discount.NewEngine(store, policy.DefaultPolicy())
	productUC := usecase.NewProductUseCase(store, engine,
		sqlite.NewCategoryRepository(db), sqlite.NewSupplierRepository(db))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: productUC,
		ReportUC:  usecase.NewReportUseCase(productUC, pdf.NewMarotoPDFGenerator("test"), xmlreport.NewEtreeGenerator("test")),
		JWTSecret: secret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func milk(stock int) map[string]any {
	return map[string]any{
		"name":           "Milk",
		"price":          4.50,
		"stock":          stock,
		"expirationDate": today.AddDate(0, 0, 10).Format(time.DateOnly),
	}
}

func TestProductAPI_Flow(t *testing.T) {
	app := newAPI(t, "")

	resp := call(t, app, http.MethodPost, "/api/products", milk(100), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.AddProductResponse](t, resp)
	assert.Equal(t, "4.50", created.Price)

	resp = call(t, app, http.MethodPost, "/api/products", milk(10), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	merged := decode[dto.AddProductResponse](t, resp)
	assert.Equal(t, 110, merged.Stock)

	resp = call(t, app, http.MethodPost, "/api/products/discounts", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.DiscountRunResponse](t, resp).Applied)

	resp = call(t, app, http.MethodGet, "/api/products/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "3.60", p.Price)
	assert.True(t, p.Discounted)

	resp = call(t, app, http.MethodPut, "/api/products/1/stock?amount=-500", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products/search?name=mil", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 1)

	resp = call(t, app, http.MethodGet, "/api/products/1/history", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.HistoryResponse](t, resp), 3)

	resp = call(t, app, http.MethodDelete, "/api/products/1", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products/1", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductAPI_ErrorMapping(t *testing.T) {
	app := newAPI(t, "")

	expired := milk(1)
	expired["expirationDate"] = today.AddDate(0, 0, -1).Format(time.DateOnly)
	resp := call(t, app, http.MethodPost, "/api/products", expired, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	invalid := milk(-1)
	resp = call(t, app, http.MethodPost, "/api/products", invalid, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "stock", decode[dto.ErrorResponse](t, resp).Field)

	resp = call(t, app, http.MethodGet, "/api/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPut, "/api/products/1/stock", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/categories", map[string]string{"name": "Lácteos"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, app, http.MethodPost, "/api/categories", map[string]string{"name": "Lácteos"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/categories/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lácteos", decode[dto.CategoryResponse](t, resp).Name)
	resp = call(t, app, http.MethodGet, "/api/suppliers/4", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	withSupplier := milk(1)
	withSupplier["supplierId"] = 4
	resp = call(t, app, http.MethodPost, "/api/products", withSupplier, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "supplierId", decode[dto.ErrorResponse](t, resp).Field)
}

func TestProductAPI_ExpiringReport(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodPost, "/api/products", milk(5), "")
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products/report/expiring?before="+today.AddDate(0, 0, 30).Format(time.DateOnly), nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/products/report/expiring?format=xml&before="+today.AddDate(0, 0, 30).Format(time.DateOnly), nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<ExpiringReport")

	resp = call(t, app, http.MethodGet, "/api/products/report/expiring?format=csv&before=2025-07-01", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductAPI_AuthEnabled(t *testing.T) {
	app := newAPI(t, testJWTSecret)

	resp := call(t, app, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/products", nil, tokenForRole(t, "consulta"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products", milk(1), tokenForRole(t, "consulta"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products", milk(1), tokenForRole(t, "bodeguero"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
