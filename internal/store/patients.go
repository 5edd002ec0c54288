package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tordrt/clinicschema/internal/model"
)

// checkSex rejects a Sex outside the enumeration the way the database would
func checkSex(sex model.Sex) error {
	if _, err := sex.Value(); err != nil {
		return &ConstraintError{Kind: ConstraintCheck, Err: err}
	}
	return nil
}

func patientValues(p *model.Patient) map[string]any {
	return map[string]any{
		"clinic_id": p.ClinicID,
		"name":      p.Name,
		"email":     p.Email,
		"phone":     p.PhoneNumber,
		"sex":       p.Sex,
	}
}

// CreatePatient inserts a patient; p.ID is assigned here.
// A Sex outside the enumeration is rejected before reaching the database.
func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	if err := checkSex(p.Sex); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	p.ID = uuid.New()
	values := patientValues(p)
	values["id"] = p.ID

	if err := s.insert(ctx, model.TablePatients, values); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return s.GetPatient(ctx, p.ID)
}

// GetPatient returns the patient with the given id or ErrNotFound
func (s *Store) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := s.getByID(ctx, &patient, model.TablePatients, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// UpdatePatient writes every mutable column of p
func (s *Store) UpdatePatient(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	if err := checkSex(p.Sex); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	if err := s.updateByID(ctx, model.TablePatients, p.ID, patientValues(p)); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.GetPatient(ctx, p.ID)
}

// DeletePatient removes a patient and, by cascade, their appointments
func (s *Store) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteByID(ctx, model.TablePatients, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// ListPatientAppointments lists a patient's appointments, earliest first
func (s *Store) ListPatientAppointments(ctx context.Context, patientID uuid.UUID) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := s.listBy(ctx, &appointments, model.TableAppointments, "patient_id", patientID, "appointments.date, appointments.id"); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
