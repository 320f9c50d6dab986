package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// CreateMany inserta las tiendas en un solo batch y asigna los IDs generados.
func (r *StoreRepo) CreateMany(ctx context.Context, stores []*entity.Store) error {
	if len(stores) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, s := range stores {
		batch.Queue(`INSERT INTO stores (name) VALUES ($1) RETURNING id`, s.Name)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for _, s := range stores {
		if err := br.QueryRow().Scan(&s.ID); err != nil {
			return storageError("insert store", err)
		}
	}
	if err := br.Close(); err != nil {
		return storageError("insert store", err)
	}
	return nil
}

// GetByIDs obtiene las tiendas de los IDs indicados.
func (r *StoreRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Store, error) {
	out := make(map[int64]*entity.Store, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, name FROM stores WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, storageError("get stores", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, storageError("scan store", err)
		}
		out[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("get stores", err)
	}
	return out, nil
}
