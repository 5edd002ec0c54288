package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tordrt/clinicschema/internal/model"
)

// CreateAppointment books a patient with a doctor at a clinic
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	a.ID = uuid.New()
	if err := s.insert(ctx, model.TableAppointments, map[string]any{
		"id":         a.ID,
		"date":       a.Date.UTC(),
		"patient_id": a.PatientID,
		"doctor_id":  a.DoctorID,
		"clinic_id":  a.ClinicID,
	}); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return s.GetAppointment(ctx, a.ID)
}

// GetAppointment returns the appointment with the given id or ErrNotFound
func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := s.getByID(ctx, &appointment, model.TableAppointments, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// RescheduleAppointment moves an appointment to a new date
func (s *Store) RescheduleAppointment(ctx context.Context, id uuid.UUID, date time.Time) (*model.Appointment, error) {
	if err := s.updateByID(ctx, model.TableAppointments, id, map[string]any{"date": date.UTC()}); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	return s.GetAppointment(ctx, id)
}

// DeleteAppointment removes one appointment
func (s *Store) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteByID(ctx, model.TableAppointments, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
