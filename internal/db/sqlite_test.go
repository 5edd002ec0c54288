package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tordrt/clinicschema/internal/ddl"
	"github.com/tordrt/clinicschema/internal/model"
)

func newMigratedSQLite(t *testing.T) *SQLiteClient {
	t.Helper()
	ctx := context.Background()

	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "clinic.db"))
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	stmts, err := ddl.Generate(model.Definition(), ddl.SQLite)
	if err != nil {
		t.Fatalf("Failed to generate DDL: %v", err)
	}
	if err := client.Apply(ctx, stmts); err != nil {
		t.Fatalf("Failed to apply DDL: %v", err)
	}
	return client
}

func TestSQLiteExtraction(t *testing.T) {
	client := newMigratedSQLite(t)

	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	verifyClinicSchema(t, s)
}

func TestSQLiteSpecificTables(t *testing.T) {
	client := newMigratedSQLite(t)

	s, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"clinics", "doctors"})
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	verifyTablesExist(t, s, []string{"clinics", "doctors"})

	if _, err := NewSQLiteExtractor(client).ExtractSchema(context.Background(), []string{"nurses"}); err == nil {
		t.Error("Expected error for a missing table")
	}
}

func TestSQLiteForeignKeysEnabled(t *testing.T) {
	client := newMigratedSQLite(t)

	var enabled int
	if err := client.GetDB().QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("Failed to read pragma: %v", err)
	}
	if enabled != 1 {
		t.Error("Expected foreign_keys pragma to be on")
	}

	_, err := client.GetDB().Exec(`INSERT INTO doctors
		(id, clinic_id, name, specialty, appointment_price_in_cents,
		 available_from_week_day, available_to_week_day, available_from_time, available_to_time)
		VALUES ('d1', 'missing', 'Dr. X', 'gp', 100, 1, 5, '09:00:00', '17:00:00')`)
	if err == nil {
		t.Error("Expected foreign key violation for an unknown clinic")
	}
}

func TestSQLiteApplyRollsBack(t *testing.T) {
	ctx := context.Background()
	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "clinic.db"))
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}
	defer client.Close()

	err = client.Apply(ctx, []string{"CREATE TABLE a (id TEXT)", "CREATE TABLE broken ("})
	if err == nil {
		t.Fatal("Expected the invalid statement to fail")
	}

	s, err := NewSQLiteExtractor(client).ExtractSchema(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	if len(s.Tables) != 0 {
		t.Errorf("Expected rollback to leave no tables, got %d", len(s.Tables))
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "clinic.db", want: "file:clinic.db?_foreign_keys=on"},
		{path: "file:clinic.db?cache=shared", want: "file:clinic.db?cache=shared&_foreign_keys=on"},
		{path: "clinic.db?_fk=1", want: "clinic.db?_fk=1"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := SQLiteDSN(tt.path); got != tt.want {
				t.Errorf("SQLiteDSN(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
