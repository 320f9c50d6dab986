package entity

import "time"

// InventorySale es el registro diario de ventas y existencias de un producto en una tienda.
// (ProductID, StoreID, Date) es la clave natural: como máximo una fila por tripleta.
// Date es una fecha de calendario guardada como medianoche UTC.
type InventorySale struct {
	ID            int64
	ProductID     int64
	StoreID       int64
	Date          time.Time
	SalesQuantity int64 // acumulado, solo crece
	Stock         int64 // existencias restantes, nunca negativo
}

// Key devuelve la clave natural de la fila.
func (s *InventorySale) Key() NaturalKey {
	return NaturalKey{ProductID: s.ProductID, StoreID: s.StoreID, Date: s.Date}
}

// CanSell indica si hay existencias suficientes para vender quantity unidades.
// Igualdad permitida: el stock puede quedar exactamente en cero.
func (s *InventorySale) CanSell(quantity int64) bool {
	return quantity >= 0 && s.Stock >= quantity
}

// ApplySale suma quantity a SalesQuantity y lo resta de Stock. El llamador valida con CanSell.
func (s *InventorySale) ApplySale(quantity int64) {
	s.SalesQuantity += quantity
	s.Stock -= quantity
}

// NaturalKey identifica una fila de InventorySale por producto, tienda y fecha.
type NaturalKey struct {
	ProductID int64
	StoreID   int64
	Date      time.Time
}
