package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for _, enum := range s.Enums {
		_, _ = fmt.Fprintf(f.writer, "ENUM %s: %s\n", enum.Name, strings.Join(enum.Values, "|"))
	}
	if len(s.Enums) > 0 {
		_, _ = fmt.Fprintln(f.writer)
	}

	for i := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.FormatTable(s, &s.Tables[i])
	}
	return nil
}

// FormatTable writes one table, including the foreign keys that point at it
func (f *TextFormatter) FormatTable(s *schema.Schema, table *schema.Table) {
	pkStr := ""
	if len(table.PrimaryKey) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)

	for _, col := range table.Columns {
		parts := append([]string{col.Name + ":", typeLabel(col)}, columnConstraints(table, col)...)
		_, _ = fmt.Fprintf(f.writer, "  %s\n", strings.Join(parts, " "))
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s (%s, ON DELETE %s)\n",
				rel.SourceColumn, rel.TargetTable, rel.TargetColumn, rel.Cardinality, onDeleteLabel(rel.OnDelete))
		}
	}

	if incoming := s.IncomingReferences(table.Name); len(incoming) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCED BY:")
		for _, ref := range incoming {
			_, _ = fmt.Fprintf(f.writer, "    ← %s.%s (ON DELETE %s)\n",
				ref.SourceTable, ref.SourceColumn, onDeleteLabel(ref.OnDelete))
		}
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.IsUnique {
				unique = " UNIQUE"
			}
			_, _ = fmt.Fprintf(f.writer, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}
}
