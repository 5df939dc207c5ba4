package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// ParcelInput is the parcel form as typed by the user. Surface and Crops are
// raw text: "2,5" is rejected, "2.5" accepted; crops are comma separated.
type ParcelInput struct {
	Name          string
	Surface       string
	Crops         string
	HarvestPeriod string
}

// ParcelService defines the interface for parcel business logic operations.
type ParcelService interface {
	// List returns the user's parcels, newest first.
	List(ctx context.Context, userID string) ([]models.Parcel, error)

	// Get returns ErrParcelNotFound if the user has no such parcel.
	Get(ctx context.Context, userID, parcelID string) (*models.Parcel, error)

	// Create validates the form and stores a new parcel.
	// Returns a *validation.ValidationError before any write if a field is rejected.
	Create(ctx context.Context, userID string, input ParcelInput) (*models.Parcel, error)

	// Update replaces the form fields of an existing parcel.
	Update(ctx context.Context, userID, parcelID string, input ParcelInput) (*models.Parcel, error)

	// Delete removes the parcel. With cascading enabled its zones and
	// harvests are removed first. Deleting a missing parcel succeeds.
	Delete(ctx context.Context, userID, parcelID string) error
}

type parcelService struct {
	parcels repository.ParcelRepository
	cascade *cascade
	enabled bool
	log     *logger.Logger
}

// NewParcelService creates a new instance of ParcelService. When cascadeDeletes
// is set, Delete removes the parcel's zones and harvests before the parcel.
func NewParcelService(
	parcels repository.ParcelRepository,
	zones repository.ZoneRepository,
	harvests repository.HarvestRepository,
	cascadeDeletes bool,
	log *logger.Logger,
) ParcelService {
	return &parcelService{
		parcels: parcels,
		cascade: &cascade{zones: zones, harvests: harvests, log: log},
		enabled: cascadeDeletes,
		log:     log,
	}
}

// parseParcelInput applies the parcel form rules: a name, then a positive surface.
func parseParcelInput(input ParcelInput) (models.ParcelFields, error) {
	name, err := validation.RequireText(FieldName, input.Name)
	if err != nil {
		return models.ParcelFields{}, err
	}
	surface, err := validation.ParseSurface(input.Surface)
	if err != nil {
		return models.ParcelFields{}, err
	}
	return models.ParcelFields{
		Name:            name,
		SurfaceHectares: surface,
		Crops:           validation.SplitCropList(input.Crops),
		HarvestPeriod:   strings.TrimSpace(input.HarvestPeriod),
	}, nil
}

func (s *parcelService) List(ctx context.Context, userID string) ([]models.Parcel, error) {
	parcels, err := s.parcels.List(ctx, repository.ParcelScope{UserID: userID})
	if err != nil {
		s.log.Error("Failed to list parcels", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}
	return parcels, nil
}

func (s *parcelService) Get(ctx context.Context, userID, parcelID string) (*models.Parcel, error) {
	parcel, err := s.parcels.Get(ctx, repository.ParcelScope{UserID: userID}, parcelID)
	if err != nil {
		s.log.Error("Failed to load parcel", err, map[string]interface{}{
			"user_id":   userID,
			"parcel_id": parcelID,
		})
		return nil, fmt.Errorf("failed to load parcel: %w", err)
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}
	return parcel, nil
}

func (s *parcelService) Create(ctx context.Context, userID string, input ParcelInput) (*models.Parcel, error) {
	fields, err := parseParcelInput(input)
	if err != nil {
		s.log.Warn("Parcel form rejected", map[string]interface{}{
			"user_id": userID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	scope := repository.ParcelScope{UserID: userID}
	id, err := s.parcels.Add(ctx, scope, fields)
	if err != nil {
		s.log.Error("Failed to create parcel", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to create parcel: %w", err)
	}

	s.log.Info("Parcel created", map[string]interface{}{
		"user_id":   userID,
		"parcel_id": id,
		"surface":   fields.SurfaceHectares,
		"crops":     len(fields.Crops),
	})
	return s.Get(ctx, userID, id)
}

func (s *parcelService) Update(ctx context.Context, userID, parcelID string, input ParcelInput) (*models.Parcel, error) {
	fields, err := parseParcelInput(input)
	if err != nil {
		s.log.Warn("Parcel form rejected", map[string]interface{}{
			"user_id":   userID,
			"parcel_id": parcelID,
			"reason":    err.Error(),
		})
		return nil, err
	}

	// Repository updates are unchecked path writes.
	if _, err := s.Get(ctx, userID, parcelID); err != nil {
		return nil, err
	}

	if err := s.parcels.Update(ctx, repository.ParcelScope{UserID: userID}, parcelID, fields.Patch()); err != nil {
		s.log.Error("Failed to update parcel", err, map[string]interface{}{
			"user_id":   userID,
			"parcel_id": parcelID,
		})
		return nil, fmt.Errorf("failed to update parcel: %w", err)
	}

	s.log.Info("Parcel updated", map[string]interface{}{
		"user_id":   userID,
		"parcel_id": parcelID,
	})
	return s.Get(ctx, userID, parcelID)
}

func (s *parcelService) Delete(ctx context.Context, userID, parcelID string) error {
	scope := repository.ParcelScope{UserID: userID}

	if s.enabled {
		if err := s.cascade.deleteParcelChildren(ctx, scope.Zones(parcelID)); err != nil {
			s.log.Error("Failed to delete parcel children", err, map[string]interface{}{
				"user_id":   userID,
				"parcel_id": parcelID,
			})
			return err
		}
	}

	if err := s.parcels.Delete(ctx, scope, parcelID); err != nil {
		s.log.Error("Failed to delete parcel", err, map[string]interface{}{
			"user_id":   userID,
			"parcel_id": parcelID,
		})
		return fmt.Errorf("failed to delete parcel: %w", err)
	}

	s.log.Info("Parcel deleted", map[string]interface{}{
		"user_id":   userID,
		"parcel_id": parcelID,
		"cascade":   s.enabled,
	})
	return nil
}
