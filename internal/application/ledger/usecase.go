package ledger

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/application/dto"
	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
	"github.com/jhoicas/invent-cli/internal/domain/sales"
)

// Ledger casos de uso sobre registros de venta: listado, conciliación, borrado y beneficio por tienda.
type Ledger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	saleRepo    repository.InventorySaleRepository
}

// NewLedger construye el caso de uso.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	saleRepo repository.InventorySaleRepository,
) *Ledger {
	return &Ledger{
		txRunner:    txRunner,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		saleRepo:    saleRepo,
	}
}

// ListSales devuelve las ventas de los productos indicados en el orden del almacén.
// Los nombres se resuelven con una consulta por tipo de entidad; una referencia colgante deja el nombre vacío.
func (l *Ledger) ListSales(ctx context.Context, productIDs []int64) ([]dto.SaleRow, error) {
	rows, err := l.saleRepo.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.SaleRow{}, nil
	}
	products, err := l.productRepo.GetByIDs(ctx, sales.ProductIDs(rows))
	if err != nil {
		return nil, err
	}
	stores, err := l.storeRepo.GetByIDs(ctx, sales.StoreIDs(rows))
	if err != nil {
		return nil, err
	}

	out := make([]dto.SaleRow, 0, len(rows))
	for _, s := range rows {
		row := dto.SaleRow{
			Date:          s.Date,
			SalesQuantity: s.SalesQuantity,
			Stock:         s.Stock,
		}
		if p, ok := products[s.ProductID]; ok {
			row.ProductName = p.Name
		}
		if st, ok := stores[s.StoreID]; ok {
			row.StoreName = st.Name
		}
		out = append(out, row)
	}
	return out, nil
}

// AddSales concilia una venta: bloquea la fila de la clave natural (SELECT FOR UPDATE),
// verifica Stock >= Quantity y aplica SalesQuantity += q, Stock -= q en la misma transacción.
// Devuelve domain.ErrNotFound o domain.ErrInsufficientStock sin modificar nada.
func (l *Ledger) AddSales(ctx context.Context, req dto.AddSalesRequest) error {
	if req.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	return l.txRunner.Run(ctx, func(saleRepo repository.InventorySaleRepository) error {
		sale, err := saleRepo.GetByKeyForUpdate(ctx, req.Key())
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !sale.CanSell(req.Quantity) {
			return domain.ErrInsufficientStock
		}
		return saleRepo.ApplySale(ctx, sale.ID, req.Quantity)
	})
}

// DeleteSales elimina la fila de la clave natural. Sin efectos sobre productos ni tiendas.
func (l *Ledger) DeleteSales(ctx context.Context, req dto.DeleteSalesRequest) error {
	deleted, err := l.saleRepo.DeleteByKey(ctx, req.Key())
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// GetProfit calcula el beneficio de cada tienda pedida que tenga ventas.
// Las tiendas sin ventas se omiten (no se rellenan con cero).
func (l *Ledger) GetProfit(ctx context.Context, storeIDs []int64) ([]sales.StoreProfit, error) {
	rows, err := l.saleRepo.ListByStores(ctx, storeIDs)
	if err != nil {
		return nil, err
	}
	return l.aggregate(ctx, rows)
}

// GetMostProfit devuelve la tienda con mayor beneficio sobre todas las ventas, o nil si no hay ventas.
// Empates: gana el menor ID de tienda.
func (l *Ledger) GetMostProfit(ctx context.Context) (*sales.StoreProfit, error) {
	rows, err := l.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	profits, err := l.aggregate(ctx, rows)
	if err != nil {
		return nil, err
	}
	return sales.MostProfitable(profits), nil
}

func (l *Ledger) aggregate(ctx context.Context, rows []*entity.InventorySale) ([]sales.StoreProfit, error) {
	if len(rows) == 0 {
		return []sales.StoreProfit{}, nil
	}
	products, err := l.productRepo.GetByIDs(ctx, sales.ProductIDs(rows))
	if err != nil {
		return nil, err
	}
	profits := sales.AggregateProfit(rows, products)

	ids := make([]int64, 0, len(profits))
	for _, p := range profits {
		ids = append(ids, p.StoreID)
	}
	stores, err := l.storeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range profits {
		if st, ok := stores[profits[i].StoreID]; ok {
			profits[i].StoreName = st.Name
		}
	}
	return profits, nil
}
