package main

import (
	"context"
	"time"

	mongoMigration "seatrota/internal/migrations/mongo"
	postgresMigration "seatrota/internal/migrations/postgres"
	"seatrota/pkg/config"
)

const JobName = "migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Connect()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "storage", cfg.StorageDriver)
	if err := migrate(ctx, cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}

func migrate(ctx context.Context, cfg *config.Config) error {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	case config.StoragePostgres:
		return postgresMigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
	default:
		cfg.Log.Info("Nothing to migrate for storage driver", "storage", cfg.StorageDriver)
		return nil
	}
}
