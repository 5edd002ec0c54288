package ddl

import (
	"fmt"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// Generate returns the statements that create the schema, parents first.
// Every statement is safe to re-run against a database that already has it.
func Generate(s *schema.Schema, d Dialect) ([]string, error) {
	order, err := s.CreationOrder()
	if err != nil {
		return nil, err
	}

	var stmts []string

	if d == Postgres {
		for _, enum := range s.Enums {
			stmts = append(stmts, postgresEnum(enum))
		}
	}

	for _, name := range order {
		table, _ := s.Table(name)
		create, err := createTable(s, table, d)
		if err != nil {
			return nil, fmt.Errorf("failed to render table %s: %w", name, err)
		}
		stmts = append(stmts, create)

		if d != MySQL {
			for _, idx := range table.Indexes {
				stmts = append(stmts, createIndex(table.Name, idx))
			}
		}

		stmts = append(stmts, timestampTriggers(table, d)...)
	}

	return stmts, nil
}

// Drop returns the statements that remove the schema, children first
func Drop(s *schema.Schema, d Dialect) ([]string, error) {
	order, err := s.CreationOrder()
	if err != nil {
		return nil, err
	}

	var stmts []string
	for i := len(order) - 1; i >= 0; i-- {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s", order[i]))
	}

	if d == Postgres {
		for i := len(order) - 1; i >= 0; i-- {
			table, _ := s.Table(order[i])
			if hasTimestampRules(table) {
				stmts = append(stmts, fmt.Sprintf("DROP FUNCTION IF EXISTS %s()", touchFunction(table.Name)))
			}
		}
		for _, enum := range s.Enums {
			stmts = append(stmts, fmt.Sprintf("DROP TYPE IF EXISTS %s", enum.Name))
		}
	}

	return stmts, nil
}

// Script joins statements into a single SQL file
func Script(stmts []string) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return b.String()
}

func postgresEnum(enum schema.Enum) string {
	return fmt.Sprintf(`DO $$ BEGIN
	CREATE TYPE %s AS ENUM (%s);
EXCEPTION
	WHEN duplicate_object THEN null;
END $$`, enum.Name, quoteList(enum.Values))
}

func createTable(s *schema.Schema, table *schema.Table, d Dialect) (string, error) {
	var lines []string

	for _, col := range table.Columns {
		line, err := columnDefinition(s, col, d)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(table.PrimaryKey, ", ")))

	for _, rel := range table.Relations {
		fk := fmt.Sprintf("CONSTRAINT %s_%s_fkey FOREIGN KEY (%s) REFERENCES %s (%s)",
			table.Name, rel.SourceColumn, rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
		if rel.OnDelete != "" && rel.OnDelete != schema.NoAction {
			fk += " ON DELETE " + string(rel.OnDelete)
		}
		lines = append(lines, fk)
	}

	if d == MySQL {
		for _, idx := range table.Indexes {
			lines = append(lines, fmt.Sprintf("%s %s (%s)", indexKeyword(idx), idx.Name, strings.Join(idx.Columns, ", ")))
		}
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table.Name, strings.Join(lines, ",\n\t"))
	if d == MySQL {
		stmt += " ENGINE=InnoDB"
	}
	return stmt, nil
}

func columnDefinition(s *schema.Schema, col schema.Column, d Dialect) (string, error) {
	var enum *schema.Enum
	if col.Kind == schema.KindEnum {
		enum, _ = s.Enum(col.Enum)
	}

	sqlType, err := ColumnType(col, enum, d)
	if err != nil {
		return "", err
	}

	parts := []string{col.Name, sqlType}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if expr := defaultExpr(col.Default, d); expr != "" {
		parts = append(parts, "DEFAULT "+expr)
	}
	if col.OnUpdateNow && d == MySQL {
		parts = append(parts, "ON UPDATE CURRENT_TIMESTAMP(3)")
	}
	if col.Kind == schema.KindEnum && d == SQLite {
		parts = append(parts, fmt.Sprintf("CHECK (%s IN (%s))", col.Name, quoteList(enum.Values)))
	}

	return strings.Join(parts, " "), nil
}

func createIndex(table string, idx schema.Index) string {
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", indexKeyword(idx), idx.Name, table, strings.Join(idx.Columns, ", "))
}

func indexKeyword(idx schema.Index) string {
	if idx.IsUnique {
		return "UNIQUE INDEX"
	}
	return "INDEX"
}

func hasTimestampRules(table *schema.Table) bool {
	for _, col := range table.Columns {
		if col.OnUpdateNow || col.Immutable {
			return true
		}
	}
	return false
}

func touchFunction(table string) string {
	return table + "_touch_timestamps"
}

// timestampTriggers refreshes OnUpdateNow columns and pins Immutable ones on every update
func timestampTriggers(table *schema.Table, d Dialect) []string {
	if !hasTimestampRules(table) {
		return nil
	}

	var touched, pinned []string
	for _, col := range table.Columns {
		if col.OnUpdateNow {
			touched = append(touched, col.Name)
		}
		if col.Immutable {
			pinned = append(pinned, col.Name)
		}
	}

	switch d {
	case Postgres:
		var body []string
		for _, col := range touched {
			body = append(body, fmt.Sprintf("\tNEW.%s := greatest(clock_timestamp(), OLD.%s + interval '1 microsecond');", col, col))
		}
		for _, col := range pinned {
			body = append(body, fmt.Sprintf("\tNEW.%s := OLD.%s;", col, col))
		}
		fn := touchFunction(table.Name)
		return []string{
			fmt.Sprintf("CREATE OR REPLACE FUNCTION %s() RETURNS trigger AS $$\nBEGIN\n%s\n\tRETURN NEW;\nEND;\n$$ LANGUAGE plpgsql", fn, strings.Join(body, "\n")),
			fmt.Sprintf("CREATE OR REPLACE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION %s()", fn, table.Name, fn),
		}

	case SQLite:
		var stmts []string
		for _, col := range touched {
			// Dropped first so a re-run migration replaces an older trigger body
			name := fmt.Sprintf("%s_touch_%s", table.Name, col)
			stmts = append(stmts,
				fmt.Sprintf("DROP TRIGGER IF EXISTS %s", name),
				fmt.Sprintf(
					"CREATE TRIGGER %s AFTER UPDATE ON %s FOR EACH ROW WHEN NEW.%s IS OLD.%s\nBEGIN\n\tUPDATE %s SET %s = %s WHERE rowid = NEW.rowid;\nEND",
					name, table.Name, col, col, table.Name, col, sqliteNextTimestamp("OLD."+col)))
		}
		for _, col := range pinned {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE TRIGGER IF NOT EXISTS %s_pin_%s AFTER UPDATE OF %s ON %s FOR EACH ROW WHEN NEW.%s IS NOT OLD.%s\nBEGIN\n\tUPDATE %s SET %s = OLD.%s WHERE rowid = NEW.rowid;\nEND",
				table.Name, col, col, table.Name, col, col, table.Name, col, col))
		}
		return stmts

	case MySQL:
		// ON UPDATE stays on the column so it is visible to extraction; the
		// trigger overrides it with a value that always moves forward
		var sets []string
		for _, col := range touched {
			sets = append(sets, fmt.Sprintf(
				"NEW.%s = GREATEST(CURRENT_TIMESTAMP(3), COALESCE(OLD.%s + INTERVAL 1000 MICROSECOND, CURRENT_TIMESTAMP(3)))", col, col))
		}
		for _, col := range pinned {
			sets = append(sets, fmt.Sprintf("NEW.%s = OLD.%s", col, col))
		}
		name := touchFunction(table.Name)
		return []string{
			fmt.Sprintf("DROP TRIGGER IF EXISTS %s", name),
			fmt.Sprintf("CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW SET %s", name, table.Name, strings.Join(sets, ", ")),
		}
	}

	return nil
}
