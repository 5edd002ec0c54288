package model

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps are filled by the database on insert and refreshed on update
type Timestamps struct {
	CreatedAt *time.Time `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// User is a row of users; it carries only its id
type User struct {
	ID uuid.UUID `db:"id" json:"id"`
}

// UserClinic links a user to a clinic
type UserClinic struct {
	UserID   uuid.UUID `db:"user_id" json:"userId"`
	ClinicID uuid.UUID `db:"clinic_id" json:"clinicId"`
	Timestamps
}

// Clinic is a row of clinics
type Clinic struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	Timestamps
}

// Doctor is a row of doctors, including the weekly availability window
type Doctor struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinicId"`
	Name                    string    `db:"name" json:"name"`
	AvatarImageURL          *string   `db:"avatar_image_url" json:"avatarImageUrl,omitempty"`
	Specialty               string    `db:"specialty" json:"specialty"`
	AppointmentPriceInCents int       `db:"appointment_price_in_cents" json:"appointmentPriceInCents"`
	AvailableFromWeekday    Weekday   `db:"available_from_week_day" json:"availableFromWeekday"`
	AvailableToWeekday      Weekday   `db:"available_to_week_day" json:"availableToWeekday"`
	AvailableFromTime       TimeOfDay `db:"available_from_time" json:"availableFromTime"`
	AvailableToTime         TimeOfDay `db:"available_to_time" json:"availableToTime"`
	Timestamps
}

// Patient is a row of patients
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinicId"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone" json:"phoneNumber"`
	Sex         Sex       `db:"sex" json:"sex"`
	Timestamps
}

// Appointment is a row of appointments
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	PatientID uuid.UUID `db:"patient_id" json:"patientId"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctorId"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinicId"`
	Timestamps
}
