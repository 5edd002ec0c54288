// Package ddl renders a declared schema as executable DDL for each supported engine.
package ddl

import (
	"fmt"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// Dialect identifies a SQL engine
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
)

// ParseDialect accepts the dialect names used on the command line
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s (must be postgres, sqlite or mysql)", s)
	}
}

// ColumnType maps a declared column to the dialect's SQL type
func ColumnType(col schema.Column, enum *schema.Enum, d Dialect) (string, error) {
	switch col.Kind {
	case schema.KindUUID:
		switch d {
		case Postgres:
			return "uuid", nil
		case MySQL:
			return "CHAR(36)", nil
		default:
			return "TEXT", nil
		}
	case schema.KindText:
		if d == MySQL {
			// TEXT columns cannot carry plain indexes in MySQL
			return "VARCHAR(255)", nil
		}
		if d == Postgres {
			return "text", nil
		}
		return "TEXT", nil
	case schema.KindInteger:
		if d == Postgres {
			return "integer", nil
		}
		return "INTEGER", nil
	case schema.KindTime:
		if d == Postgres {
			return "time", nil
		}
		return "TIME", nil
	case schema.KindTimestamp:
		switch d {
		case Postgres:
			return "timestamp", nil
		case MySQL:
			return "DATETIME(3)", nil
		default:
			return "TIMESTAMP", nil
		}
	case schema.KindEnum:
		if enum == nil {
			return "", fmt.Errorf("column %s: enum %q not declared", col.Name, col.Enum)
		}
		switch d {
		case Postgres:
			return enum.Name, nil
		case MySQL:
			return fmt.Sprintf("ENUM(%s)", quoteList(enum.Values)), nil
		default:
			return "TEXT", nil
		}
	default:
		return "", fmt.Errorf("column %s: unsupported kind %q", col.Name, col.Kind)
	}
}

func defaultExpr(rule schema.DefaultRule, d Dialect) string {
	switch rule {
	case schema.DefaultRandomUUID:
		switch d {
		case Postgres:
			return "gen_random_uuid()"
		case MySQL:
			return "(UUID())"
		default:
			return sqliteRandomUUID
		}
	case schema.DefaultNow:
		switch d {
		case Postgres:
			return "now()"
		case MySQL:
			return "CURRENT_TIMESTAMP(3)"
		default:
			return sqliteNow
		}
	default:
		return ""
	}
}

// sqliteNow is the current time with millisecond precision
const sqliteNow = "(strftime('%Y-%m-%d %H:%M:%f', 'now'))"

// sqliteNextTimestamp is the current time, or one millisecond past prev when
// the clock has not moved on since prev was written. A NULL prev yields now.
func sqliteNextTimestamp(prev string) string {
	return fmt.Sprintf("max(%s, coalesce(strftime('%%Y-%%m-%%d %%H:%%M:%%f', julianday(%s) + 0.001 / 86400.0), %s))",
		sqliteNow, prev, sqliteNow)
}

// sqliteRandomUUID builds a version 4 UUID from randomblob
const sqliteRandomUUID = "(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-4' || " +
	"substr(lower(hex(randomblob(2))), 2) || '-' || substr('89ab', 1 + (abs(random()) % 4), 1) || " +
	"substr(lower(hex(randomblob(2))), 2) || '-' || lower(hex(randomblob(6))))"

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
