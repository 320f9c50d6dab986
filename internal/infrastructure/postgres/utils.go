package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/invent-cli/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// storageError traduce un error de pgx al error de dominio: duplicado o fallo de almacenamiento.
func storageError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrDuplicate, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}
