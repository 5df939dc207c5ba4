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

// ZoneInput is the zone form.
type ZoneInput struct {
	Name        string
	Description string
}

// ZoneService defines the zone operations within one parcel.
type ZoneService interface {
	List(ctx context.Context, scope repository.ZoneScope) ([]models.Zone, error)

	// Get returns ErrZoneNotFound if the parcel has no such zone.
	Get(ctx context.Context, scope repository.ZoneScope, zoneID string) (*models.Zone, error)

	// Create returns ErrParcelNotFound if the parent parcel does not exist.
	Create(ctx context.Context, scope repository.ZoneScope, input ZoneInput) (*models.Zone, error)

	Update(ctx context.Context, scope repository.ZoneScope, zoneID string, input ZoneInput) (*models.Zone, error)

	// Delete removes the zone, and its harvests first when cascading is enabled.
	Delete(ctx context.Context, scope repository.ZoneScope, zoneID string) error
}

type zoneService struct {
	parcels repository.ParcelRepository
	zones   repository.ZoneRepository
	cascade *cascade
	enabled bool
	log     *logger.Logger
}

// NewZoneService creates a new instance of ZoneService.
func NewZoneService(
	parcels repository.ParcelRepository,
	zones repository.ZoneRepository,
	harvests repository.HarvestRepository,
	cascadeDeletes bool,
	log *logger.Logger,
) ZoneService {
	return &zoneService{
		parcels: parcels,
		zones:   zones,
		cascade: &cascade{zones: zones, harvests: harvests, log: log},
		enabled: cascadeDeletes,
		log:     log,
	}
}

func parseZoneInput(input ZoneInput) (models.ZoneFields, error) {
	name, err := validation.RequireText(FieldName, input.Name)
	if err != nil {
		return models.ZoneFields{}, err
	}
	return models.ZoneFields{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}, nil
}

func zoneFields(scope repository.ZoneScope) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
	}
}

func (s *zoneService) List(ctx context.Context, scope repository.ZoneScope) ([]models.Zone, error) {
	zones, err := s.zones.List(ctx, scope)
	if err != nil {
		s.log.Error("Failed to list zones", err, zoneFields(scope))
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return zones, nil
}

func (s *zoneService) Get(ctx context.Context, scope repository.ZoneScope, zoneID string) (*models.Zone, error) {
	zone, err := s.zones.Get(ctx, scope, zoneID)
	if err != nil {
		s.log.Error("Failed to load zone", err, zoneFields(scope))
		return nil, fmt.Errorf("failed to load zone: %w", err)
	}
	if zone == nil {
		return nil, ErrZoneNotFound
	}
	return zone, nil
}

func (s *zoneService) Create(ctx context.Context, scope repository.ZoneScope, input ZoneInput) (*models.Zone, error) {
	fields, err := parseZoneInput(input)
	if err != nil {
		s.log.Warn("Zone form rejected", map[string]interface{}{
			"user_id": scope.UserID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	parcel, err := s.parcels.Get(ctx, repository.ParcelScope{UserID: scope.UserID}, scope.ParcelID)
	if err != nil {
		s.log.Error("Failed to load parent parcel", err, zoneFields(scope))
		return nil, fmt.Errorf("failed to load parcel: %w", err)
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}

	id, err := s.zones.Add(ctx, scope, fields)
	if err != nil {
		s.log.Error("Failed to create zone", err, zoneFields(scope))
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}

	s.log.Info("Zone created", map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
		"zone_id":   id,
	})
	return s.Get(ctx, scope, id)
}

func (s *zoneService) Update(ctx context.Context, scope repository.ZoneScope, zoneID string, input ZoneInput) (*models.Zone, error) {
	fields, err := parseZoneInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, scope, zoneID); err != nil {
		return nil, err
	}

	if err := s.zones.Update(ctx, scope, zoneID, fields.Patch()); err != nil {
		s.log.Error("Failed to update zone", err, zoneFields(scope))
		return nil, fmt.Errorf("failed to update zone: %w", err)
	}

	s.log.Info("Zone updated", map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
		"zone_id":   zoneID,
	})
	return s.Get(ctx, scope, zoneID)
}

func (s *zoneService) Delete(ctx context.Context, scope repository.ZoneScope, zoneID string) error {
	if s.enabled {
		if err := s.cascade.deleteZoneChildren(ctx, scope.Harvests(zoneID)); err != nil {
			s.log.Error("Failed to delete zone children", err, zoneFields(scope))
			return err
		}
	}

	if err := s.zones.Delete(ctx, scope, zoneID); err != nil {
		s.log.Error("Failed to delete zone", err, zoneFields(scope))
		return fmt.Errorf("failed to delete zone: %w", err)
	}

	s.log.Info("Zone deleted", map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
		"zone_id":   zoneID,
		"cascade":   s.enabled,
	})
	return nil
}
