package repository

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// CreateMany inserta productos nuevos; el ID lo asigna el almacén.
	CreateMany(ctx context.Context, products []*entity.Product) error
	// GetByIDs devuelve los productos encontrados indexados por ID. Los IDs ausentes no son error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)
}
