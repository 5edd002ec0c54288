package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// applicationName tags the sessions this module opens in pg_stat_activity
const applicationName = "clinicschema"

// PostgresClient holds one PostgreSQL session used for migrations and catalog reads
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient connects and checks the session is usable
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if _, ok := cfg.RuntimeParams["application_name"]; !ok {
		cfg.RuntimeParams["application_name"] = applicationName
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close ends the session
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying session
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// Apply runs the statements in one transaction. PostgreSQL DDL is transactional,
// so a failed migration leaves no half-created tables, types or triggers.
func (c *PostgresClient) Apply(ctx context.Context, stmts []string) error {
	return pgx.BeginFunc(ctx, c.conn, func(tx pgx.Tx) error {
		for i, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}
