package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/marketplace/logger"
)

// DB is the shared connection pool, initialized once by Connect.
var DB *pgxpool.Pool

// Connect opens the pgx pool from DATABASE_URL.
func Connect() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse database config: %v", err)
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create connection pool: %v", err)
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	DB = pool
	logger.InfoLogger.Info("Database pool created")

	// Verify connectivity without blocking startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.ErrorLogger.Errorf("Database ping failed: %v", err)
			return
		}
		logger.InfoLogger.Info("Database connection verified")
	}()

	return nil
}

// Close releases the pool.
func Close() {
	if DB != nil {
		DB.Close()
		logger.InfoLogger.Info("Database connection closed")
	}
}
