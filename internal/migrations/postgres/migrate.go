// Package postgres creates the relational schema used by the postgres
// storage driver.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"seatrota/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var Schema string

// RunMigration applies the schema. Every statement is idempotent.
func RunMigration(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	log.Info("Running PostgreSQL migrations")
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Info("PostgreSQL schema applied")
	return nil
}
