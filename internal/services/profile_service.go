package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// ProfileInput is the profile form. Email is not part of it; it always comes
// from the signed-in identity.
type ProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// ProfilePatchInput changes only the non-nil fields.
type ProfilePatchInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// ProfileService defines the profile operations.
type ProfileService interface {
	// Get returns ErrProfileNotFound if the user has no profile.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)

	// Save creates or merges the profile. First and last names are required.
	Save(ctx context.Context, userID, email string, input ProfileInput) (*models.UserProfile, error)

	// Patch updates the given fields of an existing profile.
	// Returns ErrProfileNotFound if the user has no profile.
	Patch(ctx context.Context, userID string, input ProfilePatchInput) (*models.UserProfile, error)
}

type profileService struct {
	repo repository.ProfileRepository
	log  *logger.Logger
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(repo repository.ProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{repo: repo, log: log}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.repo.Get(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) Save(ctx context.Context, userID, email string, input ProfileInput) (*models.UserProfile, error) {
	firstName, err := validation.RequireText(FieldFirstName, input.FirstName)
	if err != nil {
		return nil, s.rejected(userID, err)
	}
	lastName, err := validation.RequireText(FieldLastName, input.LastName)
	if err != nil {
		return nil, s.rejected(userID, err)
	}

	fields := models.ProfileFields{
		LastName:  lastName,
		FirstName: firstName,
		Phone:     strings.TrimSpace(input.Phone),
		Email:     email,
	}
	if err := s.repo.Set(ctx, userID, fields); err != nil {
		s.log.Error("Failed to save profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.log.Info("Profile saved", map[string]interface{}{
		"user_id": userID,
	})
	return s.Get(ctx, userID)
}

func (s *profileService) Patch(ctx context.Context, userID string, input ProfilePatchInput) (*models.UserProfile, error) {
	var patch models.ProfilePatch

	if input.FirstName != nil {
		firstName, err := validation.RequireText(FieldFirstName, *input.FirstName)
		if err != nil {
			return nil, s.rejected(userID, err)
		}
		patch.FirstName = &firstName
	}
	if input.LastName != nil {
		lastName, err := validation.RequireText(FieldLastName, *input.LastName)
		if err != nil {
			return nil, s.rejected(userID, err)
		}
		patch.LastName = &lastName
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		patch.Phone = &phone
	}

	if err := s.repo.Update(ctx, userID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		s.log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return s.Get(ctx, userID)
}

func (s *profileService) rejected(userID string, err error) error {
	s.log.Warn("Profile form rejected", map[string]interface{}{
		"user_id": userID,
		"reason":  err.Error(),
	})
	return err
}
