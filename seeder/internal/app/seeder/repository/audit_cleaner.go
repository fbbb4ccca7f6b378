package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const undefinedTable = "42P01"

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AuditCleaner empties the worker's reminder audit table.
type AuditCleaner struct {
	db execer
}

func NewAuditCleaner(db execer) *AuditCleaner {
	return &AuditCleaner{db: db}
}

// Truncate reports false when the table was never created.
func (c *AuditCleaner) Truncate(ctx context.Context) (bool, error) {
	_, err := c.db.Exec(ctx, `TRUNCATE TABLE reminder_audits`)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return false, nil
		}
		return false, fmt.Errorf("failed to truncate reminder_audits: %w", err)
	}
	return true, nil
}

// ConnectAudit opens a small pgx pool for one-off maintenance statements.
func ConnectAudit(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
