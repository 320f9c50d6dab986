package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invent-cli/internal/application/dto"
	"github.com/jhoicas/invent-cli/internal/application/ledger"
	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var day = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seed carga Widget(1) y Gadget(2), Depot(1) y Outlet(2), y las ventas indicadas.
func seed(t *testing.T, sales ...*entity.InventorySale) (*ledger.Ledger, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().CreateMany(ctx, []*entity.Product{
		{Name: "Widget", Cost: money("10"), SalesPrice: money("20")},
		{Name: "Gadget", Cost: money("1.25"), SalesPrice: money("3.75")},
	}))
	require.NoError(t, store.Stores().CreateMany(ctx, []*entity.Store{
		{Name: "Depot"},
		{Name: "Outlet"},
	}))
	require.NoError(t, store.Sales().CreateMany(ctx, sales))
	l := ledger.NewLedger(store, store.Products(), store.Stores(), store.Sales())
	return l, store
}

func widgetAtDepot() *entity.InventorySale {
	return &entity.InventorySale{ProductID: 1, StoreID: 1, Date: day, SalesQuantity: 5, Stock: 10}
}

func addReq(t *testing.T, s string) dto.AddSalesRequest {
	t.Helper()
	req, err := dto.ParseAddSalesRequest(s)
	require.NoError(t, err)
	return req
}

func deleteReq(t *testing.T, s string) dto.DeleteSalesRequest {
	t.Helper()
	req, err := dto.ParseDeleteSalesRequest(s)
	require.NoError(t, err)
	return req
}

func onlySale(t *testing.T, store *memory.Store) *entity.InventorySale {
	t.Helper()
	all, err := store.Sales().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	return all[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: add → insuficiente → profit → delete → list
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioWidgetDepot(t *testing.T) {
	ctx := context.Background()
	l, store := seed(t, widgetAtDepot())

	require.NoError(t, l.AddSales(ctx, addReq(t, "1,1,2023-01-01,2")))
	sale := onlySale(t, store)
	assert.Equal(t, int64(7), sale.SalesQuantity)
	assert.Equal(t, int64(8), sale.Stock)

	err := l.AddSales(ctx, addReq(t, "1,1,2023-01-01,100"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	sale = onlySale(t, store)
	assert.Equal(t, int64(7), sale.SalesQuantity, "no debe modificarse")
	assert.Equal(t, int64(8), sale.Stock, "no debe modificarse")

	profits, err := l.GetProfit(ctx, []int64{1})
	require.NoError(t, err)
	require.Len(t, profits, 1)
	assert.Equal(t, "Depot", profits[0].StoreName)
	assert.True(t, money("70").Equal(profits[0].Profit), "got %s", profits[0].Profit)

	require.NoError(t, l.DeleteSales(ctx, deleteReq(t, "1,1,2023-01-01")))
	rows, err := l.ListSales(ctx, []int64{1})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListSales
// ──────────────────────────────────────────────────────────────────────────────

func TestListSales_ResuelveNombres(t *testing.T) {
	l, _ := seed(t,
		widgetAtDepot(),
		&entity.InventorySale{ProductID: 2, StoreID: 2, Date: day, SalesQuantity: 1, Stock: 3},
		&entity.InventorySale{ProductID: 1, StoreID: 2, Date: day.AddDate(0, 0, 1), SalesQuantity: 4, Stock: 6},
	)

	rows, err := l.ListSales(context.Background(), []int64{1})
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, dto.SaleRow{ProductName: "Widget", StoreName: "Depot", Date: day, SalesQuantity: 5, Stock: 10}, rows[0])
	assert.Equal(t, dto.SaleRow{ProductName: "Widget", StoreName: "Outlet", Date: day.AddDate(0, 0, 1), SalesQuantity: 4, Stock: 6}, rows[1])
}

func TestListSales_ReferenciaColganteDejaNombreVacio(t *testing.T) {
	l, _ := seed(t, &entity.InventorySale{ProductID: 1, StoreID: 42, Date: day, SalesQuantity: 1, Stock: 1})

	rows, err := l.ListSales(context.Background(), []int64{1})
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0].ProductName)
	assert.Equal(t, "", rows[0].StoreName)
}

func TestListSales_SinCoincidencias(t *testing.T) {
	l, _ := seed(t, widgetAtDepot())

	rows, err := l.ListSales(context.Background(), []int64{7, 8})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddSales
// ──────────────────────────────────────────────────────────────────────────────

func TestAddSales_StockExactoQuedaEnCero(t *testing.T) {
	l, store := seed(t, widgetAtDepot())

	require.NoError(t, l.AddSales(context.Background(), addReq(t, "1,1,2023-01-01,10")))

	sale := onlySale(t, store)
	assert.Equal(t, int64(15), sale.SalesQuantity)
	assert.Equal(t, int64(0), sale.Stock)
}

func TestAddSales_NoEncontrado(t *testing.T) {
	l, store := seed(t, widgetAtDepot())

	for _, in := range []string{"2,1,2023-01-01,1", "1,2,2023-01-01,1", "1,1,2023-01-02,1"} {
		err := l.AddSales(context.Background(), addReq(t, in))
		assert.ErrorIs(t, err, domain.ErrNotFound, in)
	}

	sale := onlySale(t, store)
	assert.Equal(t, int64(5), sale.SalesQuantity)
	assert.Equal(t, int64(10), sale.Stock)
}

func TestAddSales_NuncaDejaStockNegativo(t *testing.T) {
	l, store := seed(t, widgetAtDepot())
	ctx := context.Background()

	var okCount int
	for i := 0; i < 6; i++ {
		if err := l.AddSales(ctx, addReq(t, "1,1,2023-01-01,3")); err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}

	sale := onlySale(t, store)
	assert.Equal(t, 3, okCount)
	assert.Equal(t, int64(1), sale.Stock)
	assert.Equal(t, int64(14), sale.SalesQuantity)
}

func TestAddSales_ConcurrenteNuncaDejaStockNegativo(t *testing.T) {
	l, store := seed(t, widgetAtDepot())
	ctx := context.Background()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		okCnt  int64
		others []error
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.AddSales(ctx, dto.AddSalesRequest{ProductID: 1, StoreID: 1, Date: day, Quantity: 3})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okCnt++
			} else {
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	sale := onlySale(t, store)
	assert.GreaterOrEqual(t, sale.Stock, int64(0))
	assert.Equal(t, int64(15), sale.SalesQuantity+sale.Stock, "ventas + stock se conserva")
	assert.Equal(t, okCnt*3, int64(10)-sale.Stock)
	assert.Equal(t, int64(3), okCnt)
	for _, err := range others {
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
}

func TestAddSales_CantidadNegativaRechazada(t *testing.T) {
	l, _ := seed(t, widgetAtDepot())

	err := l.AddSales(context.Background(), dto.AddSalesRequest{ProductID: 1, StoreID: 1, Date: day, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteSales
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteSales_NoEncontradoNoModifica(t *testing.T) {
	l, store := seed(t, widgetAtDepot())

	err := l.DeleteSales(context.Background(), deleteReq(t, "1,1,2024-01-01"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	onlySale(t, store)
}

func TestDeleteSales_NoAfectaProductosNiTiendas(t *testing.T) {
	l, store := seed(t, widgetAtDepot())
	ctx := context.Background()

	require.NoError(t, l.DeleteSales(ctx, deleteReq(t, "1,1,2023-01-01")))

	products, err := store.Products().GetByIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	stores, err := store.Stores().GetByIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, stores, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetProfit / GetMostProfit
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProfit_OmiteTiendasSinVentas(t *testing.T) {
	l, _ := seed(t, widgetAtDepot())

	profits, err := l.GetProfit(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	require.Len(t, profits, 1)
	assert.Equal(t, int64(1), profits[0].StoreID)
	assert.True(t, money("50").Equal(profits[0].Profit))
}

func TestGetProfit_SumaVariosProductos(t *testing.T) {
	l, _ := seed(t,
		widgetAtDepot(),
		&entity.InventorySale{ProductID: 2, StoreID: 1, Date: day, SalesQuantity: 4, Stock: 0},
		&entity.InventorySale{ProductID: 2, StoreID: 2, Date: day, SalesQuantity: 100, Stock: 0},
	)

	profits, err := l.GetProfit(context.Background(), []int64{1})
	require.NoError(t, err)

	require.Len(t, profits, 1)
	// 5*(20-10) + 4*(3.75-1.25)
	assert.True(t, money("60").Equal(profits[0].Profit), "got %s", profits[0].Profit)
}

func TestGetMostProfit(t *testing.T) {
	l, _ := seed(t,
		widgetAtDepot(),
		&entity.InventorySale{ProductID: 2, StoreID: 2, Date: day, SalesQuantity: 100, Stock: 0},
	)

	best, err := l.GetMostProfit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, best)
	assert.Equal(t, "Outlet", best.StoreName)
	assert.True(t, money("250").Equal(best.Profit))
}

func TestGetMostProfit_EmpateGanaMenorID(t *testing.T) {
	l, _ := seed(t,
		&entity.InventorySale{ProductID: 1, StoreID: 2, Date: day, SalesQuantity: 1, Stock: 0},
		&entity.InventorySale{ProductID: 1, StoreID: 1, Date: day, SalesQuantity: 1, Stock: 0},
	)

	best, err := l.GetMostProfit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, best)
	assert.Equal(t, "Depot", best.StoreName)
}

func TestGetMostProfit_SinVentas(t *testing.T) {
	l, _ := seed(t)

	best, err := l.GetMostProfit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, best)
}
