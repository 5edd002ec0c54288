// Package model declares the clinic-management schema and the typed records
// stored in it.
package model

import (
	"fmt"

	"github.com/tordrt/clinicschema/internal/schema"
)

// Table names
const (
	TableUsers          = "users"
	TableUsersToClinics = "users_to_clinics"
	TableClinics        = "clinics"
	TableDoctors        = "doctors"
	TablePatients       = "patients"
	TableAppointments   = "appointments"
)

// EnumPatientSex is the database name of the sex enumeration
const EnumPatientSex = "patient_sex"

func idColumn() schema.Column {
	return schema.Column{Name: "id", Kind: schema.KindUUID, Type: "uuid", Default: schema.DefaultRandomUUID}
}

func timestampColumns() []schema.Column {
	return []schema.Column{
		{Name: "created_at", Kind: schema.KindTimestamp, Type: "timestamp", Nullable: true, Default: schema.DefaultNow, Immutable: true},
		{Name: "updated_at", Kind: schema.KindTimestamp, Type: "timestamp", Nullable: true, Default: schema.DefaultNow, OnUpdateNow: true},
	}
}

func column(name string, kind schema.Kind, nullable bool) schema.Column {
	return schema.Column{Name: name, Kind: kind, Type: string(kind), Nullable: nullable}
}

func foreignKey(column, target string, onDelete schema.OnDelete) schema.Relation {
	return schema.Relation{
		SourceColumn: column,
		TargetTable:  target,
		TargetColumn: "id",
		Cardinality:  string(schema.ManyToOne),
		OnDelete:     onDelete,
	}
}

func fkIndex(table, column string) schema.Index {
	return schema.Index{Name: fmt.Sprintf("%s_%s_idx", table, column), Columns: []string{column}}
}

func withTimestamps(cols ...schema.Column) []schema.Column {
	return append(cols, timestampColumns()...)
}

// Definition returns the clinic-management schema
func Definition() *schema.Schema {
	s := &schema.Schema{
		Enums: []schema.Enum{
			{Name: EnumPatientSex, Values: SexValues()},
		},
		Tables: []schema.Table{
			{
				Name:       TableUsers,
				Columns:    []schema.Column{idColumn()},
				PrimaryKey: []string{"id"},
			},
			{
				Name:       TableClinics,
				Columns:    withTimestamps(idColumn(), column("name", schema.KindText, false)),
				PrimaryKey: []string{"id"},
			},
			{
				Name: TableUsersToClinics,
				Columns: withTimestamps(
					column("user_id", schema.KindUUID, false),
					column("clinic_id", schema.KindUUID, false),
				),
				PrimaryKey: []string{"user_id", "clinic_id"},
				Relations: []schema.Relation{
					foreignKey("user_id", TableUsers, schema.NoAction),
					foreignKey("clinic_id", TableClinics, schema.NoAction),
				},
				Indexes: []schema.Index{fkIndex(TableUsersToClinics, "clinic_id")},
			},
			{
				Name: TableDoctors,
				Columns: withTimestamps(
					idColumn(),
					column("clinic_id", schema.KindUUID, false),
					column("name", schema.KindText, false),
					column("avatar_image_url", schema.KindText, true),
					column("specialty", schema.KindText, false),
					column("appointment_price_in_cents", schema.KindInteger, false),
					column("available_from_week_day", schema.KindInteger, false),
					column("available_to_week_day", schema.KindInteger, false),
					column("available_from_time", schema.KindTime, false),
					column("available_to_time", schema.KindTime, false),
				),
				PrimaryKey: []string{"id"},
				Relations: []schema.Relation{
					foreignKey("clinic_id", TableClinics, schema.Cascade),
				},
				Indexes: []schema.Index{fkIndex(TableDoctors, "clinic_id")},
			},
			{
				Name: TablePatients,
				Columns: withTimestamps(
					idColumn(),
					column("clinic_id", schema.KindUUID, false),
					column("name", schema.KindText, false),
					column("email", schema.KindText, false),
					column("phone", schema.KindText, false),
					schema.Column{Name: "sex", Kind: schema.KindEnum, Type: EnumPatientSex, Enum: EnumPatientSex, EnumValues: SexValues()},
				),
				PrimaryKey: []string{"id"},
				// No cascade: a clinic that still has patients cannot be deleted.
				Relations: []schema.Relation{
					foreignKey("clinic_id", TableClinics, schema.NoAction),
				},
				Indexes: []schema.Index{fkIndex(TablePatients, "clinic_id")},
			},
			{
				Name: TableAppointments,
				Columns: withTimestamps(
					idColumn(),
					column("date", schema.KindTimestamp, false),
					column("patient_id", schema.KindUUID, false),
					column("doctor_id", schema.KindUUID, false),
					column("clinic_id", schema.KindUUID, false),
				),
				PrimaryKey: []string{"id"},
				Relations: []schema.Relation{
					foreignKey("patient_id", TablePatients, schema.Cascade),
					foreignKey("doctor_id", TableDoctors, schema.Cascade),
					foreignKey("clinic_id", TableClinics, schema.Cascade),
				},
				Indexes: []schema.Index{
					fkIndex(TableAppointments, "patient_id"),
					fkIndex(TableAppointments, "doctor_id"),
					fkIndex(TableAppointments, "clinic_id"),
				},
			},
		},
		Relationships: Relationships(),
	}

	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("invalid clinic schema: %v", err))
	}
	return s
}
