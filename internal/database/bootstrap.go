package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lakebase-connect/internal/models"
)

const probeTimeout = 5 * time.Second

// Conn is a live, verified database connection. The caller owns its lifetime
// and must Close it on every exit path.
type Conn struct {
	pool *pgxpool.Pool

	// ServerVersion is the result of the acceptance probe run at open time.
	ServerVersion string
}

// Open builds a connection pool from the descriptor, pings it, and runs a
// version probe so an expired or rotated credential surfaces here instead of
// on the caller's first real query.
func Open(ctx context.Context, descriptor *models.ConnectionDescriptor) (*Conn, error) {
	descriptor.Prepare()

	poolConfig, err := pgxpool.ParseConfig(descriptor.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	log.Printf("Connecting to database: %s", descriptor.Redacted())

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := pool.Ping(probeCtx); err != nil {
		pool.Close()
		return nil, classify(err, descriptor)
	}

	var version string
	if err := pool.QueryRow(probeCtx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, classify(err, descriptor)
	}

	log.Printf("Database connection established, server version: %s", version)
	return &Conn{pool: pool, ServerVersion: version}, nil
}

// classify maps a dial or probe failure onto the flow's error taxonomy.
// SQLSTATE class 28 is invalid authorization; everything else that happens
// before a successful handshake is treated as a network-level failure.
func classify(err error, descriptor *models.ConnectionDescriptor) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "28" {
		return &AuthenticationRejectedError{
			Username: descriptor.Username,
			Host:     descriptor.Host,
			Err:      err,
		}
	}
	return &ConnectionRefusedError{
		Host: descriptor.Host,
		Port: descriptor.Port,
		Err:  err,
	}
}

// Pool exposes the underlying pool for query execution.
func (c *Conn) Pool() *pgxpool.Pool {
	return c.pool
}

func (c *Conn) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
