// Package formatter renders a schema as compact documentation for humans and LLM prompts.
package formatter

import (
	"fmt"
	"strings"

	"github.com/tordrt/clinicschema/internal/schema"
)

// Formatter writes a whole schema
type Formatter interface {
	Format(s *schema.Schema) error
}

func typeLabel(col schema.Column) string {
	if len(col.EnumValues) > 0 {
		return fmt.Sprintf("%s (%s)", col.Type, strings.Join(col.EnumValues, "|"))
	}
	return col.Type
}

func defaultLabel(col schema.Column) string {
	if col.DefaultValue != nil {
		return *col.DefaultValue
	}
	if col.Default != schema.DefaultNone {
		return string(col.Default)
	}
	return ""
}

// columnConstraints lists key role, uniqueness, nullability, default and update rules
func columnConstraints(table *schema.Table, col schema.Column) []string {
	var parts []string
	if role := table.KeyRole(col.Name); role != schema.KeyNone {
		parts = append(parts, string(role))
	}
	if col.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if def := defaultLabel(col); def != "" {
		parts = append(parts, "DEFAULT "+def)
	}
	if col.OnUpdateNow {
		parts = append(parts, "ON UPDATE now")
	}
	if col.Immutable {
		parts = append(parts, "IMMUTABLE")
	}
	return parts
}

func onDeleteLabel(action schema.OnDelete) string {
	if action == "" {
		return string(schema.NoAction)
	}
	return string(action)
}

// FormatCardinality describes a foreign key's cardinality in words
func FormatCardinality(cardinality, source, target string) string {
	switch schema.Cardinality(cardinality) {
	case schema.ManyToOne:
		return fmt.Sprintf("many %s to one %s", source, target)
	case schema.OneToMany:
		return fmt.Sprintf("one %s to many %s", source, target)
	case schema.ManyToMany:
		return fmt.Sprintf("many %s to many %s", source, target)
	default:
		return cardinality
	}
}
