package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// CreateMany inserta los productos en un solo batch y asigna a cada uno el ID generado.
func (r *ProductRepo) CreateMany(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	query := `INSERT INTO products (name, cost, sales_price) VALUES ($1, $2, $3) RETURNING id`
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.Name, p.Cost, p.SalesPrice)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for _, p := range products {
		if err := br.QueryRow().Scan(&p.ID); err != nil {
			return storageError("insert product", err)
		}
	}
	if err := br.Close(); err != nil {
		return storageError("insert product", err)
	}
	return nil
}

// GetByIDs obtiene los productos de los IDs indicados en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT id, name, cost, sales_price FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, storageError("get products", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Cost, &p.SalesPrice); err != nil {
			return nil, storageError("scan product", err)
		}
		out[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("get products", err)
	}
	return out, nil
}
