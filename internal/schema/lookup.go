package schema

import "strings"

// KeyRole describes the part a column plays in the table's keys
type KeyRole string

const (
	KeyNone           KeyRole = ""
	KeyPrimary        KeyRole = "PK"
	KeyForeign        KeyRole = "FK"
	KeyPrimaryForeign KeyRole = "PK,FK"
)

// ColumnSpec is the per-column contract exposed to query builders
type ColumnSpec struct {
	Type     string
	Nullable bool
	Default  DefaultRule
	KeyRole  KeyRole
}

// Table returns the table with the given name
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Enum returns the enum with the given name
func (s *Schema) Enum(name string) (*Enum, bool) {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i], true
		}
	}
	return nil, false
}

// ColumnSpecs maps every column of a table to its type, nullability, default rule and key role
func (s *Schema) ColumnSpecs(tableName string) (map[string]ColumnSpec, bool) {
	table, ok := s.Table(tableName)
	if !ok {
		return nil, false
	}

	specs := make(map[string]ColumnSpec, len(table.Columns))
	for _, col := range table.Columns {
		specs[col.Name] = ColumnSpec{
			Type:     col.Type,
			Nullable: col.Nullable,
			Default:  col.Default,
			KeyRole:  table.KeyRole(col.Name),
		}
	}
	return specs, true
}

// Column returns the column with the given name
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// IsPrimaryKey reports whether the column is part of the primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// ForeignKey returns the foreign key declared on the given column
func (t *Table) ForeignKey(column string) (*Relation, bool) {
	for i := range t.Relations {
		if t.Relations[i].SourceColumn == column {
			return &t.Relations[i], true
		}
	}
	return nil, false
}

// KeyRole returns the key role of a column
func (t *Table) KeyRole(column string) KeyRole {
	_, isFK := t.ForeignKey(column)
	isPK := t.IsPrimaryKey(column)

	switch {
	case isPK && isFK:
		return KeyPrimaryForeign
	case isPK:
		return KeyPrimary
	case isFK:
		return KeyForeign
	default:
		return KeyNone
	}
}

// Reference is a foreign key seen from the referenced table
type Reference struct {
	SourceTable string
	Relation
}

// IncomingReferences finds all foreign keys pointing to the given table
func (s *Schema) IncomingReferences(tableName string) []Reference {
	var incoming []Reference
	for _, table := range s.Tables {
		for _, rel := range table.Relations {
			if rel.TargetTable == tableName {
				incoming = append(incoming, Reference{SourceTable: table.Name, Relation: rel})
			}
		}
	}
	return incoming
}

// NormalizeOnDelete maps a driver-reported referential action to an OnDelete value
func NormalizeOnDelete(action string) OnDelete {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "CASCADE":
		return Cascade
	case "RESTRICT":
		return Restrict
	case "SET NULL":
		return SetNull
	default:
		return NoAction
	}
}

// Blocks reports whether the action rejects deleting a referenced row while dependents exist
func (o OnDelete) Blocks() bool {
	return o == "" || o == NoAction || o == Restrict
}
