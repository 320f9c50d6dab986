package cli

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/application/dto"
	"github.com/jhoicas/invent-cli/internal/application/importer"
	"github.com/jhoicas/invent-cli/internal/domain/sales"
)

// SalesLedger casos de uso de ventas que expone la CLI (implementado por *ledger.Ledger).
type SalesLedger interface {
	ListSales(ctx context.Context, productIDs []int64) ([]dto.SaleRow, error)
	AddSales(ctx context.Context, req dto.AddSalesRequest) error
	DeleteSales(ctx context.Context, req dto.DeleteSalesRequest) error
	GetProfit(ctx context.Context, storeIDs []int64) ([]sales.StoreProfit, error)
	GetMostProfit(ctx context.Context) (*sales.StoreProfit, error)
}

// CSVImporter carga inicial desde archivos (implementado por *importer.Importer).
type CSVImporter interface {
	ImportFiles(ctx context.Context, paths importer.Paths) (importer.Summary, error)
}
