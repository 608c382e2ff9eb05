package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/perishables-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/perishables-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testSubject   = "bodega-norte"
	testIssuer    = "perishables-api-test"
	testExpMin    = 60
)

// buildTestApp app mínima con AuthMiddleware + RequireRole y un handler que responde 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testSubject, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp("admin"), tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_BodegueroAccedeRutaAdminOBodeguero(t *testing.T) {
	resp := doRequest(t, buildTestApp("admin", "bodeguero"), tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ConsultaBloqueadoEnRutaDeEscritura(t *testing.T) {
	resp := doRequest(t, buildTestApp("admin", "bodeguero"), tokenForRole(t, "consulta"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testSubject, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp("admin"), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app := buildTestApp("admin")
	cases := map[string]string{
		"sin header":     "",
		"sin Bearer":     "Token abc",
		"token vacío":    "Bearer   ",
		"token inválido": "Bearer token.invalido.aqui",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, app, header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"subject": apphttp.GetSubject(c), "role": apphttp.GetRole(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testSubject, body["subject"])
	assert.Equal(t, "admin", body["role"])
}
