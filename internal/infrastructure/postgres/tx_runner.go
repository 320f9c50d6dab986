package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/invent-cli/internal/application/importer"
	"github.com/jhoicas/invent-cli/internal/application/ledger"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

var (
	_ ledger.TxRunner         = (*TxRunner)(nil)
	_ importer.ImportTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repositorio de ventas atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(saleRepo repository.InventorySaleRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventorySaleRepository(tx))
	})
}

// RunImport inicia una transacción con los tres repositorios para la carga masiva.
func (r *TxRunner) RunImport(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	saleRepo repository.InventorySaleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewStoreRepository(tx), NewInventorySaleRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("commit transaction", err)
	}
	return nil
}
