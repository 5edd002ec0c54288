// Package store provides typed query helpers over the clinic schema.
//
// Joins are resolved from the declared relationship table rather than written
// by hand, and constraint violations are reported as *ConstraintError.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/tordrt/clinicschema/internal/db"
	"github.com/tordrt/clinicschema/internal/ddl"
	"github.com/tordrt/clinicschema/internal/model"
	"github.com/tordrt/clinicschema/internal/schema"
)

// Store runs queries against a database migrated with the clinic schema
type Store struct {
	db      *sqlx.DB
	dialect ddl.Dialect
	schema  *schema.Schema
}

// Open connects to the database behind a postgres://, mysql:// or sqlite:// URL
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	dialect, connStr, err := db.ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	var driver, dsn string
	switch dialect {
	case ddl.Postgres:
		driver, dsn = "pgx", connStr
	case ddl.MySQL:
		driver = "mysql"
		if dsn, err = db.MySQLDSN(connStr); err != nil {
			return nil, err
		}
	case ddl.SQLite:
		driver, dsn = "sqlite3", db.SQLiteDSN(connStr)
	}

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tunePool(conn, poolFor(dialect))

	return New(conn, dialect), nil
}

// poolConfig bounds the connection pool; zero fields keep the database/sql default
type poolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func poolFor(dialect ddl.Dialect) poolConfig {
	if dialect == ddl.SQLite {
		// One writer at a time avoids SQLITE_BUSY on a shared file
		return poolConfig{MaxOpenConns: 1, MaxIdleConns: 1}
	}
	return poolConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}
}

func tunePool(conn *sqlx.DB, cfg poolConfig) {
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// New wraps an existing connection
func New(conn *sqlx.DB, dialect ddl.Dialect) *Store {
	return &Store{db: conn, dialect: dialect, schema: model.Definition()}
}

// Close closes the underlying pool
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool for queries the store does not cover
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Dialect returns the engine the store talks to
func (s *Store) Dialect() ddl.Dialect {
	return s.dialect
}

// Migrate creates the clinic schema through the store's own connection
func (s *Store) Migrate(ctx context.Context) error {
	stmts, err := ddl.Generate(s.schema, s.dialect)
	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply statement %d: %w", i+1, err)
		}
	}
	return nil
}

// columns lists a table's declared columns, qualified with the table name
func (s *Store) columns(table string) string {
	t, ok := s.schema.Table(table)
	if !ok {
		panic("store: unknown table " + table)
	}

	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = table + "." + col.Name
	}
	return strings.Join(cols, ", ")
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return res, classify(err)
}

func (s *Store) insert(ctx context.Context, table string, values map[string]any) error {
	cols := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		args = append(args, v)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	_, err := s.exec(ctx, query, args...)
	return err
}

func (s *Store) getByID(ctx context.Context, dest any, table string, id uuid.UUID) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.id = ?", s.columns(table), table, table)
	return notFound(s.db.GetContext(ctx, dest, s.db.Rebind(query), id))
}

func (s *Store) updateByID(ctx context.Context, table string, id uuid.UUID, values map[string]any) error {
	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for col, v := range values {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (s *Store) deleteByID(ctx context.Context, table string, id uuid.UUID) error {
	res, err := s.exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// listBy selects rows of table whose column equals value
func (s *Store) listBy(ctx context.Context, dest any, table, column string, value any, orderBy string) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.%s = ? ORDER BY %s", s.columns(table), table, table, column, orderBy)
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), value)
}

// listRelated selects rows of the target table reachable from one row of the source table
func (s *Store) listRelated(ctx context.Context, dest any, from, to string, fromID uuid.UUID, orderBy string) error {
	joins, err := s.schema.JoinPath(from, to)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", s.columns(to), from)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j.SQL())
	}
	fmt.Fprintf(&b, " WHERE %s.id = ? ORDER BY %s", from, orderBy)

	return s.db.SelectContext(ctx, dest, s.db.Rebind(b.String()), fromID)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
