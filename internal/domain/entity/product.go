package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. ID lo asigna el almacén (serial).
// No existe operación de actualización: una vez importado es inmutable.
type Product struct {
	ID         int64
	Name       string
	Cost       decimal.Decimal // costo unitario
	SalesPrice decimal.Decimal // precio de venta unitario
}

// UnitMargin devuelve SalesPrice - Cost.
func (p *Product) UnitMargin() decimal.Decimal {
	return p.SalesPrice.Sub(p.Cost)
}
