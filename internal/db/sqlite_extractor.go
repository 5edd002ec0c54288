package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts the complete schema for specified tables
// If tables is empty, extracts all tables in the database
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	s, err := extractSchema(ctx, e, tables)
	if err != nil {
		return nil, err
	}
	collectEnums(s)
	return s, nil
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

// enumCheck matches the CHECK (col IN ('a', 'b')) clauses the DDL generator emits for enums
var enumCheck = regexp.MustCompile(`(?i)CHECK\s*\(\s*"?(\w+)"?\s+IN\s*\(([^)]*)\)\s*\)`)

// checkedEnums maps column names to the literal sets their CHECK constraints allow
func (e *SQLiteExtractor) checkedEnums(ctx context.Context, tableName string) (map[string][]string, error) {
	var createSQL sql.NullString
	err := e.client.GetDB().QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&createSQL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	enums := make(map[string][]string)
	for _, m := range enumCheck.FindAllStringSubmatch(createSQL.String, -1) {
		var values []string
		for _, lit := range strings.Split(m[2], ",") {
			lit = strings.TrimSpace(lit)
			lit = strings.TrimSuffix(strings.TrimPrefix(lit, "'"), "'")
			values = append(values, strings.ReplaceAll(lit, "''", "'"))
		}
		enums[m[1]] = values
	}
	return enums, nil
}

func (e *SQLiteExtractor) columns(ctx context.Context, tableName string) ([]schema.Column, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value FROM pragma_table_info(?) ORDER BY cid`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var notNull int
		var defaultValue sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &notNull, &defaultValue); err != nil {
			return nil, err
		}
		col.Nullable = notNull == 0
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	enums, err := e.checkedEnums(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to read CHECK constraints: %w", err)
	}
	for i := range columns {
		if values, ok := enums[columns[i].Name]; ok {
			columns[i].EnumValues = values
		}
	}

	return columns, nil
}

func (e *SQLiteExtractor) primaryKey(ctx context.Context, tableName string) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, tableName)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (e *SQLiteExtractor) foreignKeys(ctx context.Context, tableName string) ([]schema.Relation, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT "from", "table", "to", on_delete FROM pragma_foreign_key_list(?) ORDER BY id, seq`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		rel := schema.Relation{Cardinality: string(schema.ManyToOne)}
		var onDelete string
		if err := rows.Scan(&rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn, &onDelete); err != nil {
			return nil, err
		}
		rel.OnDelete = schema.NormalizeOnDelete(onDelete)
		relations = append(relations, rel)
	}

	return relations, rows.Err()
}

func (e *SQLiteExtractor) indexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT il.name, il."unique", ii.name
		FROM pragma_index_list(?) il
		JOIN pragma_index_info(il.name) ii
		WHERE il.origin = 'c'
		ORDER BY il.name, ii.seqno
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.Index
	for rows.Next() {
		var name, column string
		var unique int
		if err := rows.Scan(&name, &unique, &column); err != nil {
			return nil, err
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		indexes = append(indexes, schema.Index{Name: name, IsUnique: unique == 1, Columns: []string{column}})
	}

	return indexes, rows.Err()
}
