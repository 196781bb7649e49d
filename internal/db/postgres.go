package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/assigntrack/internal/config"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

const (
	connectTimeout     = 10 * time.Second
	defaultTxTimeout   = 30 * time.Second
	healthCheckPeriod  = 30 * time.Second
	applicationName    = "assigntrack"
	sessionTimeZoneUTC = "UTC"
)

// PostgresDB wraps the pgx pool shared by every repository
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// NewPostgresDB opens the pool and verifies the server is reachable.
// Sessions run in UTC so deadline comparisons made in SQL agree with the services.
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	if poolConfig.MaxConnLifetime, err = time.ParseDuration(cfg.Database.ConnMaxLifetime); err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = applicationName
	runtime["timezone"] = sessionTimeZoneUTC

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Int32("maxConns", poolConfig.MaxConns).
		Msg("PostgreSQL pool ready")

	return &PostgresDB{Pool: pool}, nil
}

// Close closes the pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn in a read-committed transaction. It commits when fn returns nil
// and rolls back on an error or a panic. Callers without a deadline get defaultTxTimeout.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	return pgx.BeginTxFunc(ctx, db.Pool, opts, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
