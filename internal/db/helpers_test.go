package db

import (
	"testing"

	"github.com/tordrt/clinicschema/internal/model"
	"github.com/tordrt/clinicschema/internal/schema"
)

var clinicTables = []string{
	model.TableAppointments,
	model.TableClinics,
	model.TableDoctors,
	model.TablePatients,
	model.TableUsers,
	model.TableUsersToClinics,
}

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}
	for _, tableName := range expectedTables {
		if _, ok := s.Table(tableName); !ok {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, s *schema.Schema, tableName string, expectedPK []string) {
	t.Helper()

	table := mustTable(t, s, tableName)
	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v on %s, got %v", expectedPK, tableName, table.PrimaryKey)
		return
	}
	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v on %s, got %v", expectedPK, tableName, table.PrimaryKey)
			return
		}
	}
}

// verifyForeignKey checks that a foreign key exists with the given delete rule
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName, sourceColumn, targetTable string, onDelete schema.OnDelete) {
	t.Helper()

	table := mustTable(t, s, tableName)
	rel, ok := table.ForeignKey(sourceColumn)
	if !ok || rel.TargetTable != targetTable {
		t.Errorf("Expected foreign key from %s.%s to %s not found", tableName, sourceColumn, targetTable)
		return
	}
	if onDelete.Blocks() && rel.OnDelete.Blocks() {
		return
	}
	if rel.OnDelete != onDelete {
		t.Errorf("Expected %s.%s ON DELETE %s, got %s", tableName, sourceColumn, onDelete, rel.OnDelete)
	}
}

// verifyIndex checks that an index exists with the expected columns
func verifyIndex(t *testing.T, s *schema.Schema, tableName, indexName string, expectedColumns []string) {
	t.Helper()

	table := mustTable(t, s, tableName)
	for _, idx := range table.Indexes {
		if idx.Name != indexName {
			continue
		}
		if len(idx.Columns) != len(expectedColumns) {
			t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
			return
		}
		for i, col := range expectedColumns {
			if idx.Columns[i] != col {
				t.Errorf("Expected index %s on %v, got %v", indexName, expectedColumns, idx.Columns)
				return
			}
		}
		return
	}

	t.Errorf("Expected index %s on %s table not found", indexName, tableName)
}

// verifyEnumValues checks that a column reports exactly the expected enum values
func verifyEnumValues(t *testing.T, s *schema.Schema, tableName, columnName string, expectedValues []string) {
	t.Helper()

	table := mustTable(t, s, tableName)
	col, ok := table.Column(columnName)
	if !ok {
		t.Errorf("Column %s not found in table %s", columnName, tableName)
		return
	}
	if len(col.EnumValues) != len(expectedValues) {
		t.Errorf("Expected enum values %v for %s, got %v", expectedValues, columnName, col.EnumValues)
		return
	}
	for i, v := range expectedValues {
		if col.EnumValues[i] != v {
			t.Errorf("Expected enum values %v for %s, got %v", expectedValues, columnName, col.EnumValues)
			return
		}
	}
}

// verifyNoDrift fails the test for every difference from the declared clinic schema
func verifyNoDrift(t *testing.T, s *schema.Schema) {
	t.Helper()

	for _, d := range schema.Compare(model.Definition(), s) {
		t.Errorf("unexpected drift: %s", d)
	}
}

// verifyClinicSchema runs the structural checks shared by every engine
func verifyClinicSchema(t *testing.T, s *schema.Schema) {
	t.Helper()

	verifyTablesExist(t, s, clinicTables)
	verifyPrimaryKey(t, s, model.TableUsersToClinics, []string{"user_id", "clinic_id"})
	verifyPrimaryKey(t, s, model.TableDoctors, []string{"id"})

	verifyForeignKey(t, s, model.TableDoctors, "clinic_id", model.TableClinics, schema.Cascade)
	verifyForeignKey(t, s, model.TablePatients, "clinic_id", model.TableClinics, schema.NoAction)
	verifyForeignKey(t, s, model.TableUsersToClinics, "clinic_id", model.TableClinics, schema.NoAction)
	verifyForeignKey(t, s, model.TableAppointments, "patient_id", model.TablePatients, schema.Cascade)
	verifyForeignKey(t, s, model.TableAppointments, "doctor_id", model.TableDoctors, schema.Cascade)
	verifyForeignKey(t, s, model.TableAppointments, "clinic_id", model.TableClinics, schema.Cascade)

	verifyIndex(t, s, model.TableAppointments, "appointments_doctor_id_idx", []string{"doctor_id"})
	verifyEnumValues(t, s, model.TablePatients, "sex", model.SexValues())

	verifyNoDrift(t, s)
}

func mustTable(t *testing.T, s *schema.Schema, tableName string) *schema.Table {
	t.Helper()

	table, ok := s.Table(tableName)
	if !ok {
		t.Fatalf("Table %s not found", tableName)
	}
	return table
}
