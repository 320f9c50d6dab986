package repository

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store.
type StoreRepository interface {
	CreateMany(ctx context.Context, stores []*entity.Store) error
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Store, error)
}
