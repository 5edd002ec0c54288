package schema

import "fmt"

// Cardinality of a declared relationship, read from the source table's side
type Cardinality string

const (
	OneToMany  Cardinality = "1:N"
	ManyToOne  Cardinality = "N:1"
	ManyToMany Cardinality = "N:M"
)

// Relationship is one entry of the declared relationship table.
//
// For direct relationships FromColumn and ToColumn are the columns joined on.
// For many-to-many relationships Via names the join table and FromColumn/ToColumn
// are the join table's columns referencing From and To respectively.
type Relationship struct {
	Name        string
	From        string
	To          string
	Cardinality Cardinality
	Via         string
	FromColumn  string
	ToColumn    string
	OnDelete    OnDelete
}

// Join is one step of a resolved join path
type Join struct {
	Table string
	On    string
}

// SQL renders the step as an INNER JOIN clause
func (j Join) SQL() string {
	return fmt.Sprintf("JOIN %s ON %s", j.Table, j.On)
}

// RelationshipsFrom returns the relationships declared on a table
func (s *Schema) RelationshipsFrom(table string) []Relationship {
	var rels []Relationship
	for _, rel := range s.Relationships {
		if rel.From == table {
			rels = append(rels, rel)
		}
	}
	return rels
}

// Relationship returns the relationship declared from one table to another
func (s *Schema) Relationship(from, to string) (Relationship, bool) {
	for _, rel := range s.Relationships {
		if rel.From == from && rel.To == to {
			return rel, true
		}
	}
	return Relationship{}, false
}

// JoinPath resolves the joins needed to go from one table to another
func (s *Schema) JoinPath(from, to string) ([]Join, error) {
	rel, ok := s.Relationship(from, to)
	if !ok {
		return nil, fmt.Errorf("no relationship declared from %s to %s", from, to)
	}

	if rel.Cardinality != ManyToMany {
		return []Join{{
			Table: to,
			On:    fmt.Sprintf("%s.%s = %s.%s", to, rel.ToColumn, from, rel.FromColumn),
		}}, nil
	}

	via, ok := s.Table(rel.Via)
	if !ok {
		return nil, fmt.Errorf("join table %s not found", rel.Via)
	}
	fromFK, ok := via.ForeignKey(rel.FromColumn)
	if !ok {
		return nil, fmt.Errorf("join table %s has no foreign key on %s", rel.Via, rel.FromColumn)
	}
	toFK, ok := via.ForeignKey(rel.ToColumn)
	if !ok {
		return nil, fmt.Errorf("join table %s has no foreign key on %s", rel.Via, rel.ToColumn)
	}

	return []Join{
		{
			Table: rel.Via,
			On:    fmt.Sprintf("%s.%s = %s.%s", rel.Via, rel.FromColumn, from, fromFK.TargetColumn),
		},
		{
			Table: to,
			On:    fmt.Sprintf("%s.%s = %s.%s", to, toFK.TargetColumn, rel.Via, rel.ToColumn),
		},
	}, nil
}
