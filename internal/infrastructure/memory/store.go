// Package memory implementa los puertos de repositorio en memoria, con transacciones por
// snapshot/restauración. Lo usan las pruebas de los casos de uso en lugar de PostgreSQL.
//
// Las transacciones (Run, RunImport) se serializan entre sí. Una escritura hecha fuera de una
// transacción mientras otra está en curso se pierde si esa transacción revierte.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/invent-cli/internal/application/importer"
	"github.com/jhoicas/invent-cli/internal/application/ledger"
	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StoreRepository         = (*StoreRepo)(nil)
	_ repository.InventorySaleRepository = (*InventorySaleRepo)(nil)
	_ ledger.TxRunner                    = (*Store)(nil)
	_ importer.ImportTxRunner            = (*Store)(nil)
)

type state struct {
	products []entity.Product
	stores   []entity.Store
	sales    []entity.InventorySale
	nextID   struct{ product, store, sale int64 }
}

func (s state) clone() state {
	c := s
	c.products = slices.Clone(s.products)
	c.stores = slices.Clone(s.stores)
	c.sales = slices.Clone(s.sales)
	return c
}

// Store almacén en memoria con las tres colecciones.
type Store struct {
	txMu  sync.Mutex // una transacción a la vez, del snapshot al commit o rollback
	mu    sync.Mutex // protege state en cada operación
	state state
}

// New crea un almacén vacío. Los IDs se asignan desde 1, como un serial de PostgreSQL.
func New() *Store {
	return &Store{}
}

// Products repositorio de productos sobre este almacén.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Stores repositorio de tiendas sobre este almacén.
func (s *Store) Stores() *StoreRepo { return &StoreRepo{s: s} }

// Sales repositorio de ventas sobre este almacén.
func (s *Store) Sales() *InventorySaleRepo { return &InventorySaleRepo{s: s} }

// Run ejecuta fn y, si devuelve error, restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(saleRepo repository.InventorySaleRepository) error) error {
	return s.transact(ctx, func() error { return fn(s.Sales()) })
}

// RunImport como Run, con los tres repositorios.
func (s *Store) RunImport(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	saleRepo repository.InventorySaleRepository,
) error) error {
	return s.transact(ctx, func() error { return fn(s.Products(), s.Stores(), s.Sales()) })
}

func (s *Store) transact(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ s *Store }

// CreateMany asigna IDs consecutivos y guarda copias.
func (r *ProductRepo) CreateMany(_ context.Context, products []*entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range products {
		r.s.state.nextID.product++
		p.ID = r.s.state.nextID.product
		r.s.state.products = append(r.s.state.products, *p)
	}
	return nil
}

// GetByIDs devuelve copias de los productos encontrados.
func (r *ProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]*entity.Product, len(ids))
	for _, p := range r.s.state.products {
		if slices.Contains(ids, p.ID) {
			cp := p
			out[p.ID] = &cp
		}
	}
	return out, nil
}

// StoreRepo implementación en memoria de StoreRepository.
type StoreRepo struct{ s *Store }

// CreateMany asigna IDs consecutivos y guarda copias.
func (r *StoreRepo) CreateMany(_ context.Context, stores []*entity.Store) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range stores {
		r.s.state.nextID.store++
		st.ID = r.s.state.nextID.store
		r.s.state.stores = append(r.s.state.stores, *st)
	}
	return nil
}

// GetByIDs devuelve copias de las tiendas encontradas.
func (r *StoreRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]*entity.Store, len(ids))
	for _, st := range r.s.state.stores {
		if slices.Contains(ids, st.ID) {
			cp := st
			out[st.ID] = &cp
		}
	}
	return out, nil
}

// InventorySaleRepo implementación en memoria de InventorySaleRepository.
// Aplica la unicidad de la clave natural igual que el índice único de PostgreSQL.
type InventorySaleRepo struct{ s *Store }

// CreateMany inserta las ventas; una clave natural repetida devuelve domain.ErrDuplicate.
func (r *InventorySaleRepo) CreateMany(_ context.Context, sales []*entity.InventorySale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sale := range sales {
		if r.indexOf(sale.Key()) >= 0 {
			return domain.ErrDuplicate
		}
		r.s.state.nextID.sale++
		sale.ID = r.s.state.nextID.sale
		r.s.state.sales = append(r.s.state.sales, *sale)
	}
	return nil
}

// ListByProducts ventas cuyo producto está en productIDs, por ID ascendente.
func (r *InventorySaleRepo) ListByProducts(_ context.Context, productIDs []int64) ([]*entity.InventorySale, error) {
	return r.filter(func(s entity.InventorySale) bool { return slices.Contains(productIDs, s.ProductID) }), nil
}

// ListByStores ventas cuya tienda está en storeIDs, por ID ascendente.
func (r *InventorySaleRepo) ListByStores(_ context.Context, storeIDs []int64) ([]*entity.InventorySale, error) {
	return r.filter(func(s entity.InventorySale) bool { return slices.Contains(storeIDs, s.StoreID) }), nil
}

// ListAll todas las ventas por ID ascendente.
func (r *InventorySaleRepo) ListAll(_ context.Context) ([]*entity.InventorySale, error) {
	return r.filter(func(entity.InventorySale) bool { return true }), nil
}

// GetByKeyForUpdate devuelve una copia de la fila o nil si no existe.
func (r *InventorySaleRepo) GetByKeyForUpdate(_ context.Context, key entity.NaturalKey) (*entity.InventorySale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.indexOf(key)
	if i < 0 {
		return nil, nil
	}
	cp := r.s.state.sales[i]
	return &cp, nil
}

// ApplySale aplica la venta solo si stock >= quantity.
func (r *InventorySaleRepo) ApplySale(_ context.Context, id, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.state.sales {
		sale := &r.s.state.sales[i]
		if sale.ID != id {
			continue
		}
		if !sale.CanSell(quantity) {
			return domain.ErrInsufficientStock
		}
		sale.ApplySale(quantity)
		return nil
	}
	return domain.ErrNotFound
}

// DeleteByKey elimina la fila de la clave natural.
func (r *InventorySaleRepo) DeleteByKey(_ context.Context, key entity.NaturalKey) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.indexOf(key)
	if i < 0 {
		return false, nil
	}
	r.s.state.sales = slices.Delete(r.s.state.sales, i, i+1)
	return true, nil
}

func (r *InventorySaleRepo) filter(keep func(entity.InventorySale) bool) []*entity.InventorySale {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.InventorySale{}
	for _, s := range r.s.state.sales {
		if keep(s) {
			cp := s
			out = append(out, &cp)
		}
	}
	return out
}

// indexOf busca por clave natural. El llamador debe tener el lock.
func (r *InventorySaleRepo) indexOf(key entity.NaturalKey) int {
	for i, s := range r.s.state.sales {
		if s.ProductID == key.ProductID && s.StoreID == key.StoreID && s.Date.Equal(key.Date) {
			return i
		}
	}
	return -1
}
