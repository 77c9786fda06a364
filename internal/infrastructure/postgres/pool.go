package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings carries the connection-pool knobs loaded from config.
// Zero values fall back to pgxpool defaults.
type PoolSettings struct {
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration
	MaxConnIdle time.Duration
}

// NewPool opens a pgx pool with the given settings and verifies the
// connection before returning it.
func NewPool(ctx context.Context, dsn string, s PoolSettings) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if s.MaxConns > 0 {
		cfg.MaxConns = s.MaxConns
	}
	if s.MinConns > 0 {
		cfg.MinConns = s.MinConns
	}
	if s.MaxConnLife > 0 {
		cfg.MaxConnLifetime = s.MaxConnLife
	}
	if s.MaxConnIdle > 0 {
		cfg.MaxConnIdleTime = s.MaxConnIdle
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
