package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
	"github.com/jhoicas/invent-cli/internal/infrastructure/memory"
)

var day = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func seedSale(t *testing.T, salesQty, stock int64) (*memory.Store, *entity.InventorySale) {
	t.Helper()
	store := memory.New()
	sale := &entity.InventorySale{ProductID: 1, StoreID: 1, Date: day, SalesQuantity: salesQty, Stock: stock}
	require.NoError(t, store.Sales().CreateMany(context.Background(), []*entity.InventorySale{sale}))
	return store, sale
}

func onlySale(t *testing.T, store *memory.Store) *entity.InventorySale {
	t.Helper()
	all, err := store.Sales().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	return all[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplySale
// ──────────────────────────────────────────────────────────────────────────────

func TestApplySale_StockInsuficienteNoModifica(t *testing.T) {
	store, sale := seedSale(t, 5, 3)

	err := store.Sales().ApplySale(context.Background(), sale.ID, 4)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	got := onlySale(t, store)
	assert.Equal(t, int64(5), got.SalesQuantity)
	assert.Equal(t, int64(3), got.Stock)
}

func TestApplySale_StockExacto(t *testing.T) {
	store, sale := seedSale(t, 5, 3)

	require.NoError(t, store.Sales().ApplySale(context.Background(), sale.ID, 3))

	got := onlySale(t, store)
	assert.Equal(t, int64(8), got.SalesQuantity)
	assert.Equal(t, int64(0), got.Stock)
}

func TestApplySale_IDInexistente(t *testing.T) {
	store, _ := seedSale(t, 5, 3)

	err := store.Sales().ApplySale(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ErrorRevierteCambios(t *testing.T) {
	store, sale := seedSale(t, 5, 10)
	boom := errors.New("boom")

	err := store.Run(context.Background(), func(saleRepo repository.InventorySaleRepository) error {
		require.NoError(t, saleRepo.ApplySale(context.Background(), sale.ID, 4))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got := onlySale(t, store)
	assert.Equal(t, int64(5), got.SalesQuantity)
	assert.Equal(t, int64(10), got.Stock)
}

func TestRun_RollbackNoBorraCommitsConcurrentes(t *testing.T) {
	store, sale := seedSale(t, 0, 1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(fail bool) {
			defer wg.Done()
			_ = store.Run(ctx, func(saleRepo repository.InventorySaleRepository) error {
				if err := saleRepo.ApplySale(ctx, sale.ID, 1); err != nil {
					return err
				}
				if fail {
					return errors.New("revertir")
				}
				return nil
			})
		}(i%2 == 0)
	}
	wg.Wait()

	got := onlySale(t, store)
	assert.Equal(t, int64(25), got.SalesQuantity, "solo las 25 transacciones confirmadas")
	assert.Equal(t, int64(975), got.Stock)
}

func TestRun_ContextoCancelado(t *testing.T) {
	store, _ := seedSale(t, 0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(repository.InventorySaleRepository) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clave natural
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMany_ClaveNaturalDuplicada(t *testing.T) {
	store, _ := seedSale(t, 0, 1)

	err := store.Sales().CreateMany(context.Background(), []*entity.InventorySale{
		{ProductID: 1, StoreID: 1, Date: day, SalesQuantity: 1, Stock: 1},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
