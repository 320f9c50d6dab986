package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

var _ repository.InventorySaleRepository = (*InventorySaleRepo)(nil)

const saleColumns = `id, product_id, store_id, date, sales_quantity, stock`

// InventorySaleRepo implementación de InventorySaleRepository sobre PostgreSQL (usable con pool o tx).
type InventorySaleRepo struct {
	q Querier
}

// NewInventorySaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewInventorySaleRepository(q Querier) *InventorySaleRepo {
	return &InventorySaleRepo{q: q}
}

// CreateMany inserta las ventas con COPY. Los IDs generados no se leen de vuelta.
// Una clave natural repetida viola inventory_sales_natural_key_uq y devuelve domain.ErrDuplicate.
func (r *InventorySaleRepo) CreateMany(ctx context.Context, sales []*entity.InventorySale) error {
	if len(sales) == 0 {
		return nil
	}
	_, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"inventory_sales"},
		[]string{"product_id", "store_id", "date", "sales_quantity", "stock"},
		pgx.CopyFromSlice(len(sales), func(i int) ([]any, error) {
			s := sales[i]
			return []any{s.ProductID, s.StoreID, s.Date, s.SalesQuantity, s.Stock}, nil
		}),
	)
	if err != nil {
		return storageError("copy inventory_sales", err)
	}
	return nil
}

// ListByProducts ventas de los productos indicados, por ID ascendente.
func (r *InventorySaleRepo) ListByProducts(ctx context.Context, productIDs []int64) ([]*entity.InventorySale, error) {
	query := `SELECT ` + saleColumns + ` FROM inventory_sales WHERE product_id = ANY($1) ORDER BY id`
	return r.list(ctx, "list sales by product", query, productIDs)
}

// ListByStores ventas de las tiendas indicadas, por ID ascendente.
func (r *InventorySaleRepo) ListByStores(ctx context.Context, storeIDs []int64) ([]*entity.InventorySale, error) {
	query := `SELECT ` + saleColumns + ` FROM inventory_sales WHERE store_id = ANY($1) ORDER BY id`
	return r.list(ctx, "list sales by store", query, storeIDs)
}

// ListAll todas las ventas, por ID ascendente.
func (r *InventorySaleRepo) ListAll(ctx context.Context) ([]*entity.InventorySale, error) {
	return r.list(ctx, "list sales", `SELECT `+saleColumns+` FROM inventory_sales ORDER BY id`)
}

// GetByKeyForUpdate obtiene la fila de la clave natural y la bloquea (SELECT FOR UPDATE).
func (r *InventorySaleRepo) GetByKeyForUpdate(ctx context.Context, key entity.NaturalKey) (*entity.InventorySale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM inventory_sales
		WHERE product_id = $1 AND store_id = $2 AND date = $3
		FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(ctx, query, key.ProductID, key.StoreID, key.Date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get sale for update", err)
	}
	return s, nil
}

// ApplySale suma la cantidad vendida y descuenta el stock solo si alcanza (UPDATE con guarda).
func (r *InventorySaleRepo) ApplySale(ctx context.Context, id, quantity int64) error {
	query := `
		UPDATE inventory_sales
		SET sales_quantity = sales_quantity + $2, stock = stock - $2
		WHERE id = $1 AND stock >= $2`
	tag, err := r.q.Exec(ctx, query, id, quantity)
	if err != nil {
		return storageError("apply sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// DeleteByKey elimina la fila de la clave natural.
func (r *InventorySaleRepo) DeleteByKey(ctx context.Context, key entity.NaturalKey) (bool, error) {
	query := `DELETE FROM inventory_sales WHERE product_id = $1 AND store_id = $2 AND date = $3`
	tag, err := r.q.Exec(ctx, query, key.ProductID, key.StoreID, key.Date)
	if err != nil {
		return false, storageError("delete sale", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InventorySaleRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventorySale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()
	out := []*entity.InventorySale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, storageError(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return out, nil
}

func scanSale(row pgx.Row) (*entity.InventorySale, error) {
	var s entity.InventorySale
	if err := row.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.Date, &s.SalesQuantity, &s.Stock); err != nil {
		return nil, err
	}
	s.Date = s.Date.UTC()
	return &s, nil
}
