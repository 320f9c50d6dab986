package sales

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
)

// StoreProfit beneficio acumulado de una tienda.
type StoreProfit struct {
	StoreID   int64
	StoreName string
	Profit    decimal.Decimal
}

// LineProfit = SalesQuantity * (SalesPrice - Cost).
// Un producto inexistente (referencia colgante) aporta cero, igual que la aritmética NULL de SQL.
func LineProfit(sale *entity.InventorySale, product *entity.Product) decimal.Decimal {
	if product == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(sale.SalesQuantity).Mul(product.UnitMargin())
}

// AggregateProfit agrupa las ventas por tienda y suma LineProfit.
// Los grupos salen en el orden de primera aparición de la tienda en sales.
// Tiendas sin ventas no aparecen.
func AggregateProfit(sales []*entity.InventorySale, products map[int64]*entity.Product) []StoreProfit {
	index := make(map[int64]int)
	var out []StoreProfit
	for _, s := range sales {
		i, ok := index[s.StoreID]
		if !ok {
			i = len(out)
			index[s.StoreID] = i
			out = append(out, StoreProfit{StoreID: s.StoreID, Profit: decimal.Zero})
		}
		out[i].Profit = out[i].Profit.Add(LineProfit(s, products[s.ProductID]))
	}
	return out
}

// MostProfitable devuelve la tienda con mayor beneficio, o nil si profits está vacío.
// En empate gana el menor StoreID.
func MostProfitable(profits []StoreProfit) *StoreProfit {
	var best *StoreProfit
	for i := range profits {
		p := &profits[i]
		if best == nil {
			best = p
			continue
		}
		switch p.Profit.Cmp(best.Profit) {
		case 1:
			best = p
		case 0:
			if p.StoreID < best.StoreID {
				best = p
			}
		}
	}
	if best == nil {
		return nil
	}
	winner := *best
	return &winner
}

// ProductIDs devuelve los IDs de producto distintos referenciados por sales, en orden de aparición.
func ProductIDs(sales []*entity.InventorySale) []int64 {
	return uniqueIDs(sales, func(s *entity.InventorySale) int64 { return s.ProductID })
}

// StoreIDs devuelve los IDs de tienda distintos referenciados por sales, en orden de aparición.
func StoreIDs(sales []*entity.InventorySale) []int64 {
	return uniqueIDs(sales, func(s *entity.InventorySale) int64 { return s.StoreID })
}

func uniqueIDs(sales []*entity.InventorySale, id func(*entity.InventorySale) int64) []int64 {
	seen := make(map[int64]struct{}, len(sales))
	ids := make([]int64, 0, len(sales))
	for _, s := range sales {
		v := id(s)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	return ids
}
