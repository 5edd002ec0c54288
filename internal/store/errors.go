package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/tordrt/clinicschema/internal/model"
)

// ErrNotFound is returned when no row matches the requested key
var ErrNotFound = errors.New("record not found")

// ConstraintKind names the database constraint a write violated
type ConstraintKind string

const (
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintUnique     ConstraintKind = "unique"
)

// ConstraintError wraps a driver error raised by a constraint the schema declares
type ConstraintError struct {
	Kind ConstraintKind
	Err  error
}

// Error describes the violated constraint and the driver error
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

// Unwrap returns the driver error
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a violation of the given kind
func IsConstraint(err error, kind ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == kind
}

// classify turns engine-specific constraint errors into a ConstraintError.
// Other errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := constraintKind(err); ok {
		return &ConstraintError{Kind: kind, Err: err}
	}
	return err
}

func constraintKind(err error) (ConstraintKind, bool) {
	// Raised by the Sex valuer before the driver sees the value
	if errors.Is(err, model.ErrInvalidSex) {
		return ConstraintCheck, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return ConstraintForeignKey, true
		case "23502":
			return ConstraintNotNull, true
		case "23514", "22P02":
			// 22P02 is raised for a literal outside an enum type
			return ConstraintCheck, true
		case "23505":
			return ConstraintUnique, true
		}
		return "", false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return ConstraintForeignKey, true
		case sqlite3.ErrConstraintNotNull:
			return ConstraintNotNull, true
		case sqlite3.ErrConstraintCheck:
			return ConstraintCheck, true
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ConstraintUnique, true
		}
		return "", false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1451, 1452:
			return ConstraintForeignKey, true
		case 1048:
			return ConstraintNotNull, true
		case 1265, 3819:
			// 1265 is how strict mode rejects a value outside an ENUM
			return ConstraintCheck, true
		case 1062:
			return ConstraintUnique, true
		}
	}

	return "", false
}
