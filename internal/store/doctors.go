package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tordrt/clinicschema/internal/model"
)

func doctorValues(d *model.Doctor) map[string]any {
	return map[string]any{
		"clinic_id":                  d.ClinicID,
		"name":                       d.Name,
		"avatar_image_url":           d.AvatarImageURL,
		"specialty":                  d.Specialty,
		"appointment_price_in_cents": d.AppointmentPriceInCents,
		"available_from_week_day":    int(d.AvailableFromWeekday),
		"available_to_week_day":      int(d.AvailableToWeekday),
		"available_from_time":        d.AvailableFromTime,
		"available_to_time":          d.AvailableToTime,
	}
}

// CreateDoctor inserts a doctor; d.ID is assigned here
func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) (*model.Doctor, error) {
	d.ID = uuid.New()
	values := doctorValues(d)
	values["id"] = d.ID

	if err := s.insert(ctx, model.TableDoctors, values); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return s.GetDoctor(ctx, d.ID)
}

// GetDoctor returns the doctor with the given id or ErrNotFound
func (s *Store) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.getByID(ctx, &doctor, model.TableDoctors, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

// UpdateDoctor writes every mutable column of d
func (s *Store) UpdateDoctor(ctx context.Context, d *model.Doctor) (*model.Doctor, error) {
	if err := s.updateByID(ctx, model.TableDoctors, d.ID, doctorValues(d)); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return s.GetDoctor(ctx, d.ID)
}

// DeleteDoctor removes a doctor and, by cascade, their appointments
func (s *Store) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteByID(ctx, model.TableDoctors, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}

// ListDoctorAppointments lists a doctor's appointments, earliest first
func (s *Store) ListDoctorAppointments(ctx context.Context, doctorID uuid.UUID) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := s.listBy(ctx, &appointments, model.TableAppointments, "doctor_id", doctorID, "appointments.date, appointments.id"); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}
