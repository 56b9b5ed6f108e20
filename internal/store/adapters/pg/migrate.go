package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
	migrations "github.com/dropDatabas3/tokenjohn/migrations/postgres"
)

// gooseLogger adapta zap a la interfaz de logging de goose.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) { logger.S().Infof(format, v...) }
func (gooseLogger) Fatalf(format string, v ...any) { logger.S().Fatalf(format, v...) }

// Migrate corre un comando de goose ("up", "down", "status", "version"...)
// contra las migraciones embebidas, reutilizando el pool del adapter.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string, args ...string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("pg: goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("pg: migrate %s: %w", command, err)
	}
	return nil
}
