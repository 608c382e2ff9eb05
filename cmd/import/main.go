// import carga productos desde un CSV usando la misma configuración que la API.
//
// Uso: go run ./cmd/import [-charset latin1] [-sep ';'] productos.csv
// Encabezado: name,price,stock,expiration_date[,category_id,supplier_id,discounted]
// Los productos vencidos se omiten; las filas inválidas se reportan y no detienen la carga.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	appdiscount "github.com/jhoicas/perishables-api/internal/application/discount"
	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/infrastructure/backend"
	"github.com/jhoicas/perishables-api/pkg/config"
	"github.com/jhoicas/perishables-api/pkg/logger"
)

func main() {
	charset := flag.String("charset", "utf8", "codificación del archivo: utf8, latin1, windows1252")
	sep := flag.String("sep", ",", "separador de columnas")
	applyDiscounts := flag.Bool("discounts", false, "aplicar descuentos dinámicos al terminar")
	flag.Parse()

	if flag.NArg() != 1 || len([]rune(*sep)) != 1 {
		fmt.Fprintln(os.Stderr, "Uso: import [-charset latin1] [-sep ';'] [-discounts] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCSV(f, *charset, []rune(*sep)[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := backend.Open(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir base de datos: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store := inventory.NewStore(db.Tx)
	engine := appdiscount.NewEngine(store, discount.Policy{
		ThresholdDays: cfg.Discount.ThresholdDays,
		Percent:       decimal.NewFromFloat(cfg.Discount.Percent),
	}, appdiscount.WithLogger(log.Component("discount")))
	uc := usecase.NewProductUseCase(store, engine, db.Categories, db.Suppliers,
		usecase.WithLogger(log.Component("import")))

	res, err := uc.ImportProducts(ctx, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
	for _, fe := range res.Failed {
		fmt.Fprintf(os.Stderr, "  fila %d: %s\n", fe.Row, fe.Message)
	}
	fmt.Printf("Creados: %d, acumulados: %d, vencidos omitidos: %d, con error: %d\n",
		res.Created, res.Merged, res.Skipped, len(res.Failed))

	if *applyDiscounts {
		run, err := uc.ApplyDynamicDiscounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Aplicar descuentos: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Descuentos aplicados: %d\n", run.Applied)
	}
}
