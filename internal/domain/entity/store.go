package entity

// Store representa una tienda (punto de venta). Inmutable tras la importación.
type Store struct {
	ID   int64
	Name string
}
