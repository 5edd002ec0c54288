package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tordrt/clinicschema/internal/model"
)

// CreateUser inserts a user with a fresh id
func (s *Store) CreateUser(ctx context.Context) (*model.User, error) {
	user := &model.User{ID: uuid.New()}
	if err := s.insert(ctx, model.TableUsers, map[string]any{"id": user.ID}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser returns the user with the given id or ErrNotFound
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.getByID(ctx, &user, model.TableUsers, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// DeleteUser fails with a foreign key ConstraintError while the user is linked to a clinic
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.deleteByID(ctx, model.TableUsers, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// LinkUserToClinic records that a user belongs to a clinic
func (s *Store) LinkUserToClinic(ctx context.Context, userID, clinicID uuid.UUID) (*model.UserClinic, error) {
	if err := s.insert(ctx, model.TableUsersToClinics, map[string]any{
		"user_id":   userID,
		"clinic_id": clinicID,
	}); err != nil {
		return nil, fmt.Errorf("failed to link user to clinic: %w", err)
	}
	return s.GetUserClinic(ctx, userID, clinicID)
}

// GetUserClinic returns the link between a user and a clinic or ErrNotFound
func (s *Store) GetUserClinic(ctx context.Context, userID, clinicID uuid.UUID) (*model.UserClinic, error) {
	var link model.UserClinic
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? AND clinic_id = ?",
		s.columns(model.TableUsersToClinics), model.TableUsersToClinics)
	if err := s.db.GetContext(ctx, &link, s.db.Rebind(query), userID, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get user clinic link: %w", notFound(err))
	}
	return &link, nil
}

// UnlinkUserFromClinic removes a link; ErrNotFound if none existed
func (s *Store) UnlinkUserFromClinic(ctx context.Context, userID, clinicID uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND clinic_id = ?", model.TableUsersToClinics)
	res, err := s.exec(ctx, query, userID, clinicID)
	if err == nil {
		err = expectRow(res)
	}
	if err != nil {
		return fmt.Errorf("failed to unlink user from clinic: %w", err)
	}
	return nil
}

// ListUserClinics lists the clinics a user is linked to
func (s *Store) ListUserClinics(ctx context.Context, userID uuid.UUID) ([]model.Clinic, error) {
	var clinics []model.Clinic
	if err := s.listRelated(ctx, &clinics, model.TableUsers, model.TableClinics, userID, "clinics.name, clinics.id"); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}
