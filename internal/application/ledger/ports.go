package ledger

import (
	"context"

	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio de ventas atado a esa tx.
// Garantiza que la conciliación de add-sales sea un read-modify-write atómico.
type TxRunner interface {
	Run(ctx context.Context, fn func(saleRepo repository.InventorySaleRepository) error) error
}
