package schema

import (
	"errors"
	"fmt"
	"sort"
)

// Validate checks that the declaration is internally consistent: foreign keys
// point at existing columns, enum columns name declared enums, every declared
// relationship is backed by a foreign key and cascading deletes form no cycle.
func (s *Schema) Validate() error {
	var errs []error

	for _, table := range s.Tables {
		if len(table.PrimaryKey) == 0 {
			errs = append(errs, fmt.Errorf("table %s has no primary key", table.Name))
		}
		for _, pk := range table.PrimaryKey {
			if _, ok := table.Column(pk); !ok {
				errs = append(errs, fmt.Errorf("table %s: primary key column %s not declared", table.Name, pk))
			}
		}

		for _, col := range table.Columns {
			if col.Kind != KindEnum {
				continue
			}
			if _, ok := s.Enum(col.Enum); !ok {
				errs = append(errs, fmt.Errorf("%s.%s: enum %q not declared", table.Name, col.Name, col.Enum))
			}
		}

		for _, rel := range table.Relations {
			if _, ok := table.Column(rel.SourceColumn); !ok {
				errs = append(errs, fmt.Errorf("%s: foreign key column %s not declared", table.Name, rel.SourceColumn))
			}
			target, ok := s.Table(rel.TargetTable)
			if !ok {
				errs = append(errs, fmt.Errorf("%s.%s references unknown table %s", table.Name, rel.SourceColumn, rel.TargetTable))
				continue
			}
			if _, ok := target.Column(rel.TargetColumn); !ok {
				errs = append(errs, fmt.Errorf("%s.%s references unknown column %s.%s", table.Name, rel.SourceColumn, rel.TargetTable, rel.TargetColumn))
			}
		}

		for _, idx := range table.Indexes {
			for _, col := range idx.Columns {
				if _, ok := table.Column(col); !ok {
					errs = append(errs, fmt.Errorf("index %s: column %s.%s not declared", idx.Name, table.Name, col))
				}
			}
		}
	}

	for _, rel := range s.Relationships {
		if err := s.checkRelationship(rel); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.checkCascadeCycles(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Schema) checkRelationship(rel Relationship) error {
	switch rel.Cardinality {
	case ManyToOne:
		from, ok := s.Table(rel.From)
		if !ok {
			return fmt.Errorf("relationship %s: unknown table %s", rel.Name, rel.From)
		}
		fk, ok := from.ForeignKey(rel.FromColumn)
		if !ok || fk.TargetTable != rel.To || fk.TargetColumn != rel.ToColumn {
			return fmt.Errorf("relationship %s: %s.%s is not a foreign key to %s.%s", rel.Name, rel.From, rel.FromColumn, rel.To, rel.ToColumn)
		}
	case OneToMany:
		to, ok := s.Table(rel.To)
		if !ok {
			return fmt.Errorf("relationship %s: unknown table %s", rel.Name, rel.To)
		}
		fk, ok := to.ForeignKey(rel.ToColumn)
		if !ok || fk.TargetTable != rel.From || fk.TargetColumn != rel.FromColumn {
			return fmt.Errorf("relationship %s: %s.%s is not a foreign key to %s.%s", rel.Name, rel.To, rel.ToColumn, rel.From, rel.FromColumn)
		}
	case ManyToMany:
		via, ok := s.Table(rel.Via)
		if !ok {
			return fmt.Errorf("relationship %s: unknown join table %s", rel.Name, rel.Via)
		}
		if fk, ok := via.ForeignKey(rel.FromColumn); !ok || fk.TargetTable != rel.From {
			return fmt.Errorf("relationship %s: %s.%s does not reference %s", rel.Name, rel.Via, rel.FromColumn, rel.From)
		}
		if fk, ok := via.ForeignKey(rel.ToColumn); !ok || fk.TargetTable != rel.To {
			return fmt.Errorf("relationship %s: %s.%s does not reference %s", rel.Name, rel.Via, rel.ToColumn, rel.To)
		}
	default:
		return fmt.Errorf("relationship %s: unknown cardinality %q", rel.Name, rel.Cardinality)
	}
	return nil
}

// checkCascadeCycles rejects declarations where cascading deletes loop back
func (s *Schema) checkCascadeCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.Tables))

	var visit func(table string, path []string) error
	visit = func(table string, path []string) error {
		switch state[table] {
		case visiting:
			return fmt.Errorf("cascade cycle: %v", append(path, table))
		case done:
			return nil
		}
		state[table] = visiting
		for _, ref := range s.IncomingReferences(table) {
			if ref.OnDelete != Cascade {
				continue
			}
			if err := visit(ref.SourceTable, append(path, table)); err != nil {
				return err
			}
		}
		state[table] = done
		return nil
	}

	for _, table := range s.Tables {
		if err := visit(table.Name, nil); err != nil {
			return err
		}
	}
	return nil
}

// CascadeTargets returns the tables whose rows are removed, directly or
// transitively, when a row of the given table is deleted.
func (s *Schema) CascadeTargets(tableName string) []string {
	seen := map[string]bool{tableName: true}
	queue := []string{tableName}
	var targets []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, ref := range s.IncomingReferences(current) {
			if ref.OnDelete != Cascade || seen[ref.SourceTable] {
				continue
			}
			seen[ref.SourceTable] = true
			targets = append(targets, ref.SourceTable)
			queue = append(queue, ref.SourceTable)
		}
	}

	sort.Strings(targets)
	return targets
}

// BlockingReferences returns the foreign keys that reject deleting a row of the
// given table (or of a table it cascades into) while dependent rows exist.
func (s *Schema) BlockingReferences(tableName string) []Reference {
	var blocking []Reference
	for _, table := range append([]string{tableName}, s.CascadeTargets(tableName)...) {
		for _, ref := range s.IncomingReferences(table) {
			if ref.OnDelete.Blocks() {
				blocking = append(blocking, ref)
			}
		}
	}
	return blocking
}

// CreationOrder returns table names ordered so that every table follows the
// tables it references. Ties keep declaration order.
func (s *Schema) CreationOrder() ([]string, error) {
	placed := make(map[string]bool, len(s.Tables))
	order := make([]string, 0, len(s.Tables))

	for len(order) < len(s.Tables) {
		progressed := false
		for _, table := range s.Tables {
			if placed[table.Name] {
				continue
			}
			ready := true
			for _, rel := range table.Relations {
				if rel.TargetTable != table.Name && !placed[rel.TargetTable] {
					ready = false
					break
				}
			}
			if ready {
				placed[table.Name] = true
				order = append(order, table.Name)
				progressed = true
			}
		}
		if !progressed {
			return nil, fmt.Errorf("foreign keys form a cycle or reference unknown tables")
		}
	}

	return order, nil
}
