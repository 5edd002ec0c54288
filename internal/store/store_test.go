package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/clinicschema/internal/ddl"
	"github.com/tordrt/clinicschema/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "clinic.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func newDoctor(clinicID uuid.UUID, name string) *model.Doctor {
	return &model.Doctor{
		ClinicID:                clinicID,
		Name:                    name,
		Specialty:               "cardiology",
		AppointmentPriceInCents: 15000,
		AvailableFromWeekday:    1,
		AvailableToWeekday:      5,
		AvailableFromTime:       model.TimeOfDay{Hour: 9},
		AvailableToTime:         model.TimeOfDay{Hour: 17, Minute: 30},
	}
}

func newPatient(clinicID uuid.UUID, name string) *model.Patient {
	return &model.Patient{
		ClinicID:    clinicID,
		Name:        name,
		Email:       name + "@example.com",
		PhoneNumber: "+15550100",
		Sex:         model.SexFemale,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestOpenSQLite(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, ddl.SQLite, s.Dialect())

	var enabled int
	require.NoError(t, s.DB().Get(&enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)
	assert.Equal(t, 1, s.DB().Stats().MaxOpenConnections)

	_, err := Open(context.Background(), "oracle://db")
	assert.Error(t, err)
}

func TestPoolFor(t *testing.T) {
	assert.Equal(t, poolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, poolFor(ddl.SQLite))
	for _, d := range []ddl.Dialect{ddl.Postgres, ddl.MySQL} {
		cfg := poolFor(d)
		assert.Equal(t, 10, cfg.MaxOpenConns, d)
		assert.Equal(t, 5, cfg.MaxIdleConns, d)
		assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime, d)
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Northside")
	require.NoError(t, err)
	assert.Equal(t, "Northside", clinic.Name)
	require.NotNil(t, clinic.CreatedAt)
	require.NotNil(t, clinic.UpdatedAt)

	avatar := "https://example.com/a.png"
	d := newDoctor(clinic.ID, "Dr. Ames")
	d.AvatarImageURL = &avatar
	doctor, err := s.CreateDoctor(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, clinic.ID, doctor.ClinicID)
	assert.Equal(t, model.Weekday(1), doctor.AvailableFromWeekday)
	assert.Equal(t, model.TimeOfDay{Hour: 17, Minute: 30}, doctor.AvailableToTime)
	require.NotNil(t, doctor.AvatarImageURL)
	assert.Equal(t, avatar, *doctor.AvatarImageURL)

	patient, err := s.CreatePatient(ctx, newPatient(clinic.ID, "jane"))
	require.NoError(t, err)
	assert.Equal(t, model.SexFemale, patient.Sex)
	assert.Equal(t, "+15550100", patient.PhoneNumber)

	date := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	appt, err := s.CreateAppointment(ctx, &model.Appointment{
		Date:      date,
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		ClinicID:  clinic.ID,
	})
	require.NoError(t, err)
	assert.True(t, date.Equal(appt.Date), "got %s", appt.Date)

	_, err = s.GetClinic(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForeignKeysAreEnforced(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateDoctor(ctx, newDoctor(uuid.New(), "Dr. Nowhere"))
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)

	clinic, err := s.CreateClinic(ctx, "Eastside")
	require.NoError(t, err)
	patient, err := s.CreatePatient(ctx, newPatient(clinic.ID, "sam"))
	require.NoError(t, err)

	_, err = s.CreateAppointment(ctx, &model.Appointment{
		Date:      time.Now(),
		PatientID: patient.ID,
		DoctorID:  uuid.New(),
		ClinicID:  clinic.ID,
	})
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)

	_, err = s.LinkUserToClinic(ctx, uuid.New(), clinic.ID)
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)
}

func TestSexOutsideEnumerationIsRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Westside")
	require.NoError(t, err)

	p := newPatient(clinic.ID, "alex")
	p.Sex = "other"
	_, err = s.CreatePatient(ctx, p)
	assert.True(t, IsConstraint(err, ConstraintCheck), "got %v", err)
	assert.ErrorIs(t, err, model.ErrInvalidSex)

	stored, err := s.CreatePatient(ctx, newPatient(clinic.ID, "sam"))
	require.NoError(t, err)
	stored.Sex = "unknown"
	_, err = s.UpdatePatient(ctx, stored)
	assert.True(t, IsConstraint(err, ConstraintCheck), "got %v", err)
	require.NoError(t, s.DeletePatient(ctx, stored.ID))

	// Passing the Valuer straight to the driver is classified the same way
	_, err = s.exec(ctx, "UPDATE patients SET sex = ? WHERE id = ?", model.Sex("other"), uuid.NewString())
	assert.True(t, IsConstraint(err, ConstraintCheck), "got %v", err)

	// Bypass the Valuer to reach the database constraint
	_, err = s.exec(ctx,
		"INSERT INTO patients (id, clinic_id, name, email, phone, sex) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), clinic.ID.String(), "alex", "alex@example.com", "555", "other")
	assert.True(t, IsConstraint(err, ConstraintCheck), "got %v", err)

	patients, err := s.ListClinicPatients(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestDeleteClinicCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c1, err := s.CreateClinic(ctx, "C1")
	require.NoError(t, err)
	c2, err := s.CreateClinic(ctx, "C2")
	require.NoError(t, err)

	doctor, err := s.CreateDoctor(ctx, newDoctor(c1.ID, "Dr. One"))
	require.NoError(t, err)
	patient, err := s.CreatePatient(ctx, newPatient(c2.ID, "pat"))
	require.NoError(t, err)
	appt, err := s.CreateAppointment(ctx, &model.Appointment{
		Date:      time.Now(),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		ClinicID:  c1.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteClinic(ctx, c1.ID))

	_, err = s.GetDoctor(ctx, doctor.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetAppointment(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, c2.ID, got.ClinicID)
}

func TestDeleteParentCascadesToAppointments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Central")
	require.NoError(t, err)
	doctor, err := s.CreateDoctor(ctx, newDoctor(clinic.ID, "Dr. Two"))
	require.NoError(t, err)
	p1, err := s.CreatePatient(ctx, newPatient(clinic.ID, "p1"))
	require.NoError(t, err)
	p2, err := s.CreatePatient(ctx, newPatient(clinic.ID, "p2"))
	require.NoError(t, err)

	for _, p := range []*model.Patient{p1, p2} {
		_, err := s.CreateAppointment(ctx, &model.Appointment{
			Date:      time.Now(),
			PatientID: p.ID,
			DoctorID:  doctor.ID,
			ClinicID:  clinic.ID,
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeletePatient(ctx, p1.ID))
	appts, err := s.ListDoctorAppointments(ctx, doctor.ID)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, p2.ID, appts[0].PatientID)

	require.NoError(t, s.DeleteDoctor(ctx, doctor.ID))
	appts, err = s.ListPatientAppointments(ctx, p2.ID)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestDeleteClinicBlockedByPatientsAndLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Southside")
	require.NoError(t, err)
	patient, err := s.CreatePatient(ctx, newPatient(clinic.ID, "kim"))
	require.NoError(t, err)

	err = s.DeleteClinic(ctx, clinic.ID)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)

	_, err = s.GetPatient(ctx, patient.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeletePatient(ctx, patient.ID))

	user, err := s.CreateUser(ctx)
	require.NoError(t, err)
	_, err = s.LinkUserToClinic(ctx, user.ID, clinic.ID)
	require.NoError(t, err)

	err = s.DeleteClinic(ctx, clinic.ID)
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)

	err = s.DeleteUser(ctx, user.ID)
	assert.True(t, IsConstraint(err, ConstraintForeignKey), "got %v", err)

	require.NoError(t, s.UnlinkUserFromClinic(ctx, user.ID, clinic.ID))
	require.NoError(t, s.DeleteClinic(ctx, clinic.ID))
	require.NoError(t, s.DeleteUser(ctx, user.ID))
}

func TestUpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Old name")
	require.NoError(t, err)

	renamed, err := s.RenameClinic(ctx, clinic.ID, "New name")
	require.NoError(t, err)
	assert.Equal(t, "New name", renamed.Name)
	assert.True(t, clinic.CreatedAt.Equal(*renamed.CreatedAt))
	assert.True(t, renamed.UpdatedAt.After(*clinic.UpdatedAt),
		"updated_at %s should be after %s", renamed.UpdatedAt, clinic.UpdatedAt)
}

func TestBackToBackUpdatesAdvanceUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Busy")
	require.NoError(t, err)

	previous := *clinic.UpdatedAt
	for i := 0; i < 100; i++ {
		renamed, err := s.RenameClinic(ctx, clinic.ID, fmt.Sprintf("Busy %d", i))
		require.NoError(t, err)
		require.True(t, renamed.UpdatedAt.After(previous),
			"update %d: updated_at %s did not move past %s", i, renamed.UpdatedAt, previous)
		previous = *renamed.UpdatedAt
	}
}

func TestCreatedAtCannotBeOverwritten(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Pinned")
	require.NoError(t, err)

	_, err = s.exec(ctx, "UPDATE clinics SET created_at = ? WHERE id = ?", "2000-01-01 00:00:00.000", clinic.ID)
	require.NoError(t, err)

	got, err := s.GetClinic(ctx, clinic.ID)
	require.NoError(t, err)
	assert.True(t, clinic.CreatedAt.Equal(*got.CreatedAt), "created_at moved to %s", got.CreatedAt)
}

func TestUpdateDoctorAndPatient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Harbor")
	require.NoError(t, err)

	doctor, err := s.CreateDoctor(ctx, newDoctor(clinic.ID, "Dr. Lee"))
	require.NoError(t, err)
	doctor.Specialty = "dermatology"
	doctor.AvailableToWeekday = 6
	updated, err := s.UpdateDoctor(ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, "dermatology", updated.Specialty)
	assert.Equal(t, model.Weekday(6), updated.AvailableToWeekday)
	assert.Nil(t, updated.AvatarImageURL)

	patient, err := s.CreatePatient(ctx, newPatient(clinic.ID, "lou"))
	require.NoError(t, err)
	patient.Sex = model.SexMale
	updatedPatient, err := s.UpdatePatient(ctx, patient)
	require.NoError(t, err)
	assert.Equal(t, model.SexMale, updatedPatient.Sex)

	_, err = s.UpdatePatient(ctx, &model.Patient{ID: uuid.New(), ClinicID: clinic.ID, Sex: model.SexMale})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRescheduleAppointment(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clinic, err := s.CreateClinic(ctx, "Valley")
	require.NoError(t, err)
	doctor, err := s.CreateDoctor(ctx, newDoctor(clinic.ID, "Dr. Ng"))
	require.NoError(t, err)
	patient, err := s.CreatePatient(ctx, newPatient(clinic.ID, "max"))
	require.NoError(t, err)

	appt, err := s.CreateAppointment(ctx, &model.Appointment{
		Date:      time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		ClinicID:  clinic.ID,
	})
	require.NoError(t, err)

	next := time.Date(2026, 5, 8, 14, 0, 0, 0, time.UTC)
	moved, err := s.RescheduleAppointment(ctx, appt.ID, next)
	require.NoError(t, err)
	assert.True(t, next.Equal(moved.Date), "got %s", moved.Date)

	require.NoError(t, s.DeleteAppointment(ctx, appt.ID))
	err = s.DeleteAppointment(ctx, appt.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRelatedListsFollowRelationships(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.CreateClinic(ctx, "Alpha")
	require.NoError(t, err)
	b, err := s.CreateClinic(ctx, "Beta")
	require.NoError(t, err)

	user, err := s.CreateUser(ctx)
	require.NoError(t, err)
	other, err := s.CreateUser(ctx)
	require.NoError(t, err)

	for _, c := range []uuid.UUID{b.ID, a.ID} {
		_, err := s.LinkUserToClinic(ctx, user.ID, c)
		require.NoError(t, err)
	}
	_, err = s.LinkUserToClinic(ctx, other.ID, b.ID)
	require.NoError(t, err)

	_, err = s.LinkUserToClinic(ctx, user.ID, a.ID)
	assert.True(t, IsConstraint(err, ConstraintUnique), "got %v", err)

	clinics, err := s.ListUserClinics(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, clinics, 2)
	assert.Equal(t, "Alpha", clinics[0].Name)
	assert.Equal(t, "Beta", clinics[1].Name)

	users, err := s.ListClinicUsers(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = s.CreateDoctor(ctx, newDoctor(a.ID, "Dr. B"))
	require.NoError(t, err)
	_, err = s.CreateDoctor(ctx, newDoctor(a.ID, "Dr. A"))
	require.NoError(t, err)
	doctors, err := s.ListClinicDoctors(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. A", doctors[0].Name)

	appts, err := s.ListClinicAppointments(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, appts)

	all, err := s.ListClinics(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
