package model

import "github.com/tordrt/clinicschema/internal/schema"

func hasMany(name, from, to, fkColumn string, onDelete schema.OnDelete) schema.Relationship {
	return schema.Relationship{
		Name:        name,
		From:        from,
		To:          to,
		Cardinality: schema.OneToMany,
		FromColumn:  "id",
		ToColumn:    fkColumn,
		OnDelete:    onDelete,
	}
}

func belongsTo(name, from, to, fkColumn string, onDelete schema.OnDelete) schema.Relationship {
	return schema.Relationship{
		Name:        name,
		From:        from,
		To:          to,
		Cardinality: schema.ManyToOne,
		FromColumn:  fkColumn,
		ToColumn:    "id",
		OnDelete:    onDelete,
	}
}

// Relationships is the relationship table of the clinic schema
func Relationships() []schema.Relationship {
	return []schema.Relationship{
		hasMany("usersToClinics", TableUsers, TableUsersToClinics, "user_id", schema.NoAction),
		{
			Name:        "clinics",
			From:        TableUsers,
			To:          TableClinics,
			Cardinality: schema.ManyToMany,
			Via:         TableUsersToClinics,
			FromColumn:  "user_id",
			ToColumn:    "clinic_id",
			OnDelete:    schema.NoAction,
		},

		belongsTo("user", TableUsersToClinics, TableUsers, "user_id", schema.NoAction),
		belongsTo("clinic", TableUsersToClinics, TableClinics, "clinic_id", schema.NoAction),

		hasMany("doctors", TableClinics, TableDoctors, "clinic_id", schema.Cascade),
		hasMany("patients", TableClinics, TablePatients, "clinic_id", schema.NoAction),
		hasMany("appointments", TableClinics, TableAppointments, "clinic_id", schema.Cascade),
		hasMany("usersToClinics", TableClinics, TableUsersToClinics, "clinic_id", schema.NoAction),
		{
			Name:        "users",
			From:        TableClinics,
			To:          TableUsers,
			Cardinality: schema.ManyToMany,
			Via:         TableUsersToClinics,
			FromColumn:  "clinic_id",
			ToColumn:    "user_id",
			OnDelete:    schema.NoAction,
		},

		belongsTo("clinic", TableDoctors, TableClinics, "clinic_id", schema.Cascade),
		hasMany("appointments", TableDoctors, TableAppointments, "doctor_id", schema.Cascade),

		belongsTo("clinic", TablePatients, TableClinics, "clinic_id", schema.NoAction),
		hasMany("appointments", TablePatients, TableAppointments, "patient_id", schema.Cascade),

		belongsTo("patient", TableAppointments, TablePatients, "patient_id", schema.Cascade),
		belongsTo("doctor", TableAppointments, TableDoctors, "doctor_id", schema.Cascade),
		belongsTo("clinic", TableAppointments, TableClinics, "clinic_id", schema.Cascade),
	}
}
