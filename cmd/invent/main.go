package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invent-cli/internal/application/importer"
	"github.com/jhoicas/invent-cli/internal/application/ledger"
	"github.com/jhoicas/invent-cli/internal/infrastructure/postgres"
	"github.com/jhoicas/invent-cli/internal/interfaces/cli"
	"github.com/jhoicas/invent-cli/pkg/config"
	"github.com/jhoicas/invent-cli/pkg/logger"
	"github.com/jhoicas/invent-cli/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: cargar configuración: %v\n", err)
		return 1
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Out:   stderr,
	}).WithField("invocation_id", uuid.NewString())
	log.Debug().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Strs("args", args).
		Msg("iniciando")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		fmt.Fprintln(stdout, "Cannot connect to the database.")
		return 1
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		created, err := postgres.Migrate(ctx, pool, log)
		if err != nil {
			log.Error().Err(err).Msg("migraciones")
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if created {
			fmt.Fprintln(stdout, "Database and tables created successfully.")
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	saleRepo := postgres.NewInventorySaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	salesLedger := ledger.NewLedger(txRunner, productRepo, storeRepo, saleRepo)
	csvImporter, err := importer.NewImporter(txRunner, cfg.Import.Encoding)
	if err != nil {
		log.Error().Err(err).Msg("importador")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	paths := importer.Paths{
		Products: cfg.Import.ProductsPath,
		Stores:   cfg.Import.StoresPath,
		Sales:    cfg.Import.SalesPath,
	}

	m := metrics.New()
	dispatcher := cli.NewDispatcher(salesLedger, csvImporter, paths, log, m)
	code := dispatcher.Run(ctx, args, stdout, stderr)

	pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.App.Name); err != nil {
		log.Warn().Err(err).Msg("métricas no enviadas")
	}
	return code
}
