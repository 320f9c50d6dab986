package repository

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/domain/entity"
)

// InventorySaleRepository define el puerto para registros de venta/existencias.
// Los listados devuelven filas en el orden natural del almacén (ID ascendente).
type InventorySaleRepository interface {
	CreateMany(ctx context.Context, sales []*entity.InventorySale) error
	ListByProducts(ctx context.Context, productIDs []int64) ([]*entity.InventorySale, error)
	ListByStores(ctx context.Context, storeIDs []int64) ([]*entity.InventorySale, error)
	ListAll(ctx context.Context) ([]*entity.InventorySale, error)
	// GetByKeyForUpdate obtiene la fila por clave natural y la bloquea (SELECT FOR UPDATE).
	// Devuelve nil, nil si no existe. Usar dentro de una transacción.
	GetByKeyForUpdate(ctx context.Context, key entity.NaturalKey) (*entity.InventorySale, error)
	// ApplySale incrementa sales_quantity y decrementa stock en una sola sentencia,
	// solo si stock >= quantity. Devuelve ErrInsufficientStock si la guarda no se cumple.
	ApplySale(ctx context.Context, id, quantity int64) error
	// DeleteByKey elimina la fila de la clave natural. Devuelve false si no existía.
	DeleteByKey(ctx context.Context, key entity.NaturalKey) (bool, error)
}
