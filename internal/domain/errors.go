package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("registro de venta no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrIO                = errors.New("error de lectura")
	ErrStorage           = errors.New("error de almacenamiento")
	ErrConfiguration     = errors.New("error de configuración")
)

// ParseError describe una entrada mal formada: fila CSV, fecha o argumento de la línea de comandos.
// Source identifica el origen (archivo o verbo), Line es 1-based (0 si no aplica).
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Source
	if e.Line > 0 {
		msg += fmt.Sprintf(" línea %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" columna %s", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" valor %q", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap permite errors.Is(err, ErrInvalidInput) además del error de causa.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}
