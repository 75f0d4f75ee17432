package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"galaxy-server/internal/shared/config"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const connectTimeout = 10 * time.Second

type DB struct {
	*sql.DB
}

type Tx struct {
	*sql.Tx
}

type Executor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (db *DB) BeginTxContext(ctx context.Context) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx}, nil
}

// Connect opens the pool and waits up to connectTimeout for the first ping.
func Connect(ctx context.Context) (*DB, error) {
	cfg := config.GlobalConfig.Database
	logger := slog.With("component", "database", "operation", "connect",
		"host", cfg.Host, "database", cfg.Name)

	connector, err := pq.NewConnector(config.GlobalConfig.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("invalid database settings: %w", err)
	}

	sqlDB := sql.OpenDB(connector)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Debug("Pinging database",
		"port", cfg.Port,
		"sslmode", cfg.SSLMode,
		"max_open_conns", cfg.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("Failed to close pool after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return &DB{sqlDB}, nil
}

// IsUniqueViolation reports whether err came from a unique constraint on insert or update.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// Status reports "connected" or "disconnected" for health endpoints.
func (db *DB) Status(ctx context.Context) string {
	if db == nil || db.DB == nil {
		return "disconnected"
	}
	if err := db.PingContext(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}
