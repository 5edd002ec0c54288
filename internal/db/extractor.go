package db

import (
	"context"
	"fmt"

	"github.com/tordrt/clinicschema/internal/schema"
)

// catalog reads table metadata from one engine's system tables
type catalog interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]schema.Column, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	foreignKeys(ctx context.Context, table string) ([]schema.Relation, error)
	indexes(ctx context.Context, table string) ([]schema.Index, error)
}

// extractSchema extracts the requested tables, or every table when none are requested
func extractSchema(ctx context.Context, c catalog, requested []string) (*schema.Schema, error) {
	names := requested
	if len(names) == 0 {
		var err error
		names, err = c.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	s := &schema.Schema{}
	for _, name := range names {
		table, err := extractTable(ctx, c, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		s.Tables = append(s.Tables, *table)
	}

	return s, nil
}

func extractTable(ctx context.Context, c catalog, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}
	var err error

	if table.Columns, err = c.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("table does not exist")
	}
	if table.PrimaryKey, err = c.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = c.foreignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = c.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	return table, nil
}

// collectEnums lifts the enum values found on columns into schema-level enums
func collectEnums(s *schema.Schema) {
	seen := make(map[string]bool)
	for _, table := range s.Tables {
		for _, col := range table.Columns {
			if len(col.EnumValues) == 0 || seen[col.Type] {
				continue
			}
			seen[col.Type] = true
			s.Enums = append(s.Enums, schema.Enum{Name: col.Type, Values: col.EnumValues})
		}
	}
}
