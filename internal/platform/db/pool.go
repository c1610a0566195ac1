package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sihatech/sihati/internal/config"
)

const (
	connMaxLifetime   = 30 * time.Minute
	connMaxIdleTime   = 5 * time.Minute
	healthCheckPeriod = time.Minute
	pingTimeout       = 5 * time.Second
)

// NewPool opens a pgx pool sized from the application profile and
// verifies the database is reachable before handing it out. Idle and
// lifetime limits keep connections fresh across Postgres restarts.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pc.MaxConns = cfg.DBMaxConns
	pc.MinConns = cfg.DBMinConns
	pc.MaxConnLifetime = connMaxLifetime
	pc.MaxConnIdleTime = connMaxIdleTime
	pc.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
