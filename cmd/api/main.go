package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"

	appdiscount "github.com/jhoicas/perishables-api/internal/application/discount"
	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/infrastructure/backend"
	infrapdf "github.com/jhoicas/perishables-api/internal/infrastructure/pdf"
	"github.com/jhoicas/perishables-api/internal/infrastructure/xmlreport"
	httpRouter "github.com/jhoicas/perishables-api/internal/interfaces/http"
	"github.com/jhoicas/perishables-api/pkg/config"
	"github.com/jhoicas/perishables-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := backend.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base de datos")
	}
	defer db.Close()

	store := inventory.NewStore(db.Tx)
	engine := appdiscount.NewEngine(store, discount.Policy{
		ThresholdDays: cfg.Discount.ThresholdDays,
		Percent:       decimal.NewFromFloat(cfg.Discount.Percent),
	}, appdiscount.WithLogger(log.Component("discount")))

	productUC := usecase.NewProductUseCase(store, engine, db.Categories, db.Suppliers,
		usecase.WithLogger(log.Component("inventory")))
	reportUC := usecase.NewReportUseCase(productUC,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name), xmlreport.NewEtreeGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en http://localhost:<port>/docs si existe el archivo generado
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
