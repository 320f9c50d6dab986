package importer

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

// ImportTxRunner ejecuta la carga masiva en una sola transacción: o entran todas las filas o ninguna.
type ImportTxRunner interface {
	RunImport(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		storeRepo repository.StoreRepository,
		saleRepo repository.InventorySaleRepository,
	) error) error
}
