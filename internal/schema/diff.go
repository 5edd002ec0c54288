package schema

import (
	"fmt"
	"slices"
	"strings"
)

// DiffKind classifies a difference between a declared and an extracted schema
type DiffKind string

const (
	DiffMissingTable      DiffKind = "missing_table"
	DiffExtraTable        DiffKind = "extra_table"
	DiffMissingColumn     DiffKind = "missing_column"
	DiffExtraColumn       DiffKind = "extra_column"
	DiffNullability       DiffKind = "nullability"
	DiffPrimaryKey        DiffKind = "primary_key"
	DiffMissingForeignKey DiffKind = "missing_foreign_key"
	DiffOnDelete          DiffKind = "on_delete"
	DiffEnumValues        DiffKind = "enum_values"
)

// Difference is one drift finding
type Difference struct {
	Kind   DiffKind
	Table  string
	Column string
	Detail string
}

// String renders the difference as "kind: table.column (detail)"
func (d Difference) String() string {
	target := d.Table
	if d.Column != "" {
		target = d.Table + "." + d.Column
	}
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Kind, target)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Kind, target, d.Detail)
}

// Compare reports where an extracted schema drifts from the declared one.
// Column types are not compared since each engine reports them differently.
func Compare(declared, actual *Schema) []Difference {
	var diffs []Difference

	for _, want := range declared.Tables {
		got, ok := actual.Table(want.Name)
		if !ok {
			diffs = append(diffs, Difference{Kind: DiffMissingTable, Table: want.Name})
			continue
		}
		diffs = append(diffs, compareTable(declared, &want, got)...)
	}

	for _, got := range actual.Tables {
		if _, ok := declared.Table(got.Name); !ok {
			diffs = append(diffs, Difference{Kind: DiffExtraTable, Table: got.Name})
		}
	}

	return diffs
}

func compareTable(declared *Schema, want, got *Table) []Difference {
	var diffs []Difference

	if !slices.Equal(want.PrimaryKey, got.PrimaryKey) {
		diffs = append(diffs, Difference{
			Kind:   DiffPrimaryKey,
			Table:  want.Name,
			Detail: fmt.Sprintf("want (%s), got (%s)", strings.Join(want.PrimaryKey, ", "), strings.Join(got.PrimaryKey, ", ")),
		})
	}

	for _, wantCol := range want.Columns {
		gotCol, ok := got.Column(wantCol.Name)
		if !ok {
			diffs = append(diffs, Difference{Kind: DiffMissingColumn, Table: want.Name, Column: wantCol.Name})
			continue
		}
		if wantCol.Nullable != gotCol.Nullable {
			diffs = append(diffs, Difference{
				Kind:   DiffNullability,
				Table:  want.Name,
				Column: wantCol.Name,
				Detail: fmt.Sprintf("want nullable=%t, got nullable=%t", wantCol.Nullable, gotCol.Nullable),
			})
		}
		if wantCol.Kind == KindEnum && len(gotCol.EnumValues) > 0 {
			if enum, ok := declared.Enum(wantCol.Enum); ok && !slices.Equal(enum.Values, gotCol.EnumValues) {
				diffs = append(diffs, Difference{
					Kind:   DiffEnumValues,
					Table:  want.Name,
					Column: wantCol.Name,
					Detail: fmt.Sprintf("want %s, got %s", strings.Join(enum.Values, "|"), strings.Join(gotCol.EnumValues, "|")),
				})
			}
		}
	}

	for _, gotCol := range got.Columns {
		if _, ok := want.Column(gotCol.Name); !ok {
			diffs = append(diffs, Difference{Kind: DiffExtraColumn, Table: want.Name, Column: gotCol.Name})
		}
	}

	for _, wantRel := range want.Relations {
		gotRel := findRelation(got.Relations, wantRel)
		if gotRel == nil {
			diffs = append(diffs, Difference{
				Kind:   DiffMissingForeignKey,
				Table:  want.Name,
				Column: wantRel.SourceColumn,
				Detail: fmt.Sprintf("to %s.%s", wantRel.TargetTable, wantRel.TargetColumn),
			})
			continue
		}
		if !sameOnDelete(wantRel.OnDelete, gotRel.OnDelete) {
			diffs = append(diffs, Difference{
				Kind:   DiffOnDelete,
				Table:  want.Name,
				Column: wantRel.SourceColumn,
				Detail: fmt.Sprintf("want %s, got %s", orNoAction(wantRel.OnDelete), orNoAction(gotRel.OnDelete)),
			})
		}
	}

	return diffs
}

func findRelation(relations []Relation, want Relation) *Relation {
	for i := range relations {
		r := &relations[i]
		if r.SourceColumn == want.SourceColumn && r.TargetTable == want.TargetTable && r.TargetColumn == want.TargetColumn {
			return r
		}
	}
	return nil
}

// sameOnDelete treats NO ACTION and RESTRICT as equal; engines report the default differently
func sameOnDelete(a, b OnDelete) bool {
	if a.Blocks() && b.Blocks() {
		return true
	}
	return a == b
}

func orNoAction(o OnDelete) OnDelete {
	if o == "" {
		return NoAction
	}
	return o
}
