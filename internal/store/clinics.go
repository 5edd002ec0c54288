package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tordrt/clinicschema/internal/model"
)

// CreateClinic inserts a clinic and returns it with database-filled timestamps
func (s *Store) CreateClinic(ctx context.Context, name string) (*model.Clinic, error) {
	id := uuid.New()
	if err := s.insert(ctx, model.TableClinics, map[string]any{
		"id":   id,
		"name": name,
	}); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}
	return s.GetClinic(ctx, id)
}

// GetClinic returns the clinic with the given id or ErrNotFound
func (s *Store) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	if err := s.getByID(ctx, &clinic, model.TableClinics, id); err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return &clinic, nil
}

// RenameClinic changes a clinic's name
func (s *Store) RenameClinic(ctx context.Context, id uuid.UUID, name string) (*model.Clinic, error) {
	if err := s.updateByID(ctx, model.TableClinics, id, map[string]any{"name": name}); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	return s.GetClinic(ctx, id)
}

// DeleteClinic removes a clinic together with its doctors and appointments.
// It fails with a foreign key ConstraintError while patients or user links remain.
func (s *Store) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteByID(ctx, model.TableClinics, id); err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	return nil
}

// ListClinics lists every clinic by name
func (s *Store) ListClinics(ctx context.Context) ([]model.Clinic, error) {
	var clinics []model.Clinic
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name, id", s.columns(model.TableClinics), model.TableClinics)
	if err := s.db.SelectContext(ctx, &clinics, query); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

// ListClinicDoctors lists the doctors of a clinic
func (s *Store) ListClinicDoctors(ctx context.Context, clinicID uuid.UUID) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := s.listRelated(ctx, &doctors, model.TableClinics, model.TableDoctors, clinicID, "doctors.name, doctors.id"); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// ListClinicPatients lists the patients of a clinic
func (s *Store) ListClinicPatients(ctx context.Context, clinicID uuid.UUID) ([]model.Patient, error) {
	var patients []model.Patient
	if err := s.listRelated(ctx, &patients, model.TableClinics, model.TablePatients, clinicID, "patients.name, patients.id"); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// ListClinicAppointments lists the appointments booked at a clinic, earliest first
func (s *Store) ListClinicAppointments(ctx context.Context, clinicID uuid.UUID) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := s.listRelated(ctx, &appointments, model.TableClinics, model.TableAppointments, clinicID, "appointments.date, appointments.id"); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListClinicUsers lists the users linked to a clinic
func (s *Store) ListClinicUsers(ctx context.Context, clinicID uuid.UUID) ([]model.User, error) {
	var users []model.User
	if err := s.listRelated(ctx, &users, model.TableClinics, model.TableUsers, clinicID, "users.id"); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
