package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/invent-cli/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsDir directorio de las migraciones dentro del FS embebido.
const MigrationsDir = "migrations"

// Migrate aplica las migraciones pendientes con goose sobre el pool.
// created es true si el esquema no existía antes de esta llamada.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger goose.Logger) (created bool, err error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return false, fmt.Errorf("%w: set goose dialect: %v", domain.ErrStorage, err)
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return false, fmt.Errorf("%w: get db version: %v", domain.ErrStorage, err)
	}
	if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
		return false, fmt.Errorf("%w: goose up: %v", domain.ErrStorage, err)
	}
	after, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return false, fmt.Errorf("%w: get db version: %v", domain.ErrStorage, err)
	}
	return before == 0 && after > 0, nil
}
