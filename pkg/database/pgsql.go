package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool creates a PostgreSQL connection pool. When checkConnection is set the
// pool is pinged before it is returned.
func NewPgxPool(ctx context.Context, databaseURL string, checkConnection bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if checkConnection {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		slog.InfoContext(ctx, "Successfully connected to PostgreSQL database")
	}
	return pool, nil
}

// ClosePgxPool closes the PostgreSQL connection pool.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		slog.Info("PostgreSQL connection pool closed")
	}
}
