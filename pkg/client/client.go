package client

import (
	"context"
	"fmt"
	"seatrota/pkg/logger"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client holds the storage connections opened for the configured driver.
// Only one of them is set in a running service.
type Client struct {
	Mongo    *mongo.Client
	Postgres *pgxpool.Pool
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// SetPostgres opens a pgx pool, retrying a few times so the service can start
// alongside its database container.
func (c *Client) SetPostgres(log *logger.Logger, dsn string, maxConns int32, connTimeout time.Duration) {
	pool, err := connectPostgres(log, dsn, maxConns, connTimeout, 5)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	log.Info("Successfully connected to PostgreSQL")
	c.Postgres = pool
}

func connectPostgres(log *logger.Logger, dsn string, maxConns int32, connTimeout time.Duration, attempts int) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				cancel()
				return pool, nil
			}
			pool.Close()
		}
		cancel()
		lastErr = err
		log.Warn("PostgreSQL connect attempt failed", "attempt", attempt, "max_attempts", attempts, "error", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", lastErr)
}

// Ping checks whichever store is connected. Memory mode has nothing to ping.
func (c *Client) Ping(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Ping(ctx, nil)
	}
	if c.Postgres != nil {
		return c.Postgres.Ping(ctx)
	}
	return nil
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
		log.Info("Closed PostgreSQL pool")
	}
}
