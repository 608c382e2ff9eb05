package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	ReportUC  *usecase.ReportUseCase
	JWTSecret string // vacío = rutas abiertas
}

// Router registra las rutas de la API.
// Con JWTSecret, las lecturas exigen token y las mutaciones rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	write := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		write = RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	}

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")

	// Rutas estáticas antes de /:id
	products.Get("/search", productHandler.Search)
	products.Get("/expiring-before", productHandler.ExpiringBefore)
	products.Post("/discounts", write, productHandler.ApplyDiscounts)
	products.Post("/clear-expired", write, productHandler.ClearExpired)
	products.Post("/import", write, productHandler.Import)
	if deps.ReportUC != nil {
		products.Get("/report/expiring", NewReportHandler(deps.ReportUC).Expiring)
	}

	products.Get("/", productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Delete("/:id", write, productHandler.Delete)
	products.Get("/:id/history", productHandler.History)
	products.Put("/:id/stock", write, productHandler.AdjustStock)
	products.Post("/:id/discount", write, productHandler.ApplyDiscount)
	products.Post("/:id/discount/manual", write, productHandler.ApplyManualDiscount)

	catalogHandler := NewCatalogHandler(deps.ProductUC)
	api.Post("/categories", write, catalogHandler.CreateCategory)
	api.Get("/categories/:id", catalogHandler.GetCategory)
	api.Post("/suppliers", write, catalogHandler.CreateSupplier)
	api.Get("/suppliers/:id", catalogHandler.GetSupplier)
}
