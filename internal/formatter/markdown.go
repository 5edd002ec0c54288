package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	if len(s.Enums) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Enums")
		_, _ = fmt.Fprintln(f.writer)
		for _, enum := range s.Enums {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", enum.Name, strings.Join(enum.Values, ", "))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	for i := range s.Tables {
		f.FormatTable(s, &s.Tables[i])
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(s *schema.Schema, table *schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	for _, col := range table.Columns {
		if constraints := columnConstraints(table, col); len(constraints) > 0 {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, typeLabel(col), strings.Join(constraints, ", "))
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, typeLabel(col))
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s (%s), on delete %s\n",
				rel.SourceColumn,
				rel.TargetTable,
				rel.TargetColumn,
				FormatCardinality(rel.Cardinality, table.Name, rel.TargetTable),
				strings.ToLower(onDeleteLabel(rel.OnDelete)))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if incoming := s.IncomingReferences(table.Name); len(incoming) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Referenced by")
		_, _ = fmt.Fprintln(f.writer)
		for _, ref := range incoming {
			_, _ = fmt.Fprintf(f.writer, "- %s.%s → %s, on delete %s\n",
				ref.SourceTable, ref.SourceColumn, ref.TargetColumn,
				strings.ToLower(onDeleteLabel(ref.OnDelete)))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Indexes")
		_, _ = fmt.Fprintln(f.writer)
		for _, idx := range table.Indexes {
			if idx.IsUnique {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s), unique\n", idx.Name, strings.Join(idx.Columns, ", "))
			} else {
				_, _ = fmt.Fprintf(f.writer, "- %s on (%s)\n", idx.Name, strings.Join(idx.Columns, ", "))
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}
