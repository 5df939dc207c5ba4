package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// HarvestInput is the harvest form. Date is DD/MM/YYYY, Weight is kilograms as text.
type HarvestInput struct {
	Date   string
	Weight string
	Crop   string
	Notes  string
}

// HarvestSummary totals the harvests of one zone.
type HarvestSummary struct {
	TotalKg   float64 `json:"totalKg"`
	Count     int     `json:"count"`
	AverageKg float64 `json:"averageKg"`
}

// SummarizeHarvests adds up harvests. The average of no harvests is 0.
func SummarizeHarvests(harvests []models.Harvest) HarvestSummary {
	summary := HarvestSummary{Count: len(harvests)}
	for _, harvest := range harvests {
		summary.TotalKg += harvest.WeightKg
	}
	if summary.Count > 0 {
		summary.AverageKg = summary.TotalKg / float64(summary.Count)
	}
	return summary
}

// HarvestService defines the harvest operations within one zone.
type HarvestService interface {
	// List returns the zone's harvests, latest harvest date first.
	List(ctx context.Context, scope repository.HarvestScope) ([]models.Harvest, error)

	// Summary totals the zone's harvests. An empty zone yields a zero summary.
	Summary(ctx context.Context, scope repository.HarvestScope) (*HarvestSummary, error)

	// Get returns ErrHarvestNotFound if the zone has no such harvest.
	Get(ctx context.Context, scope repository.HarvestScope, harvestID string) (*models.Harvest, error)

	// Create checks the date, then the weight, then the crop, and returns the
	// first rejected field. Returns ErrZoneNotFound if the zone does not exist.
	Create(ctx context.Context, scope repository.HarvestScope, input HarvestInput) (*models.Harvest, error)

	Update(ctx context.Context, scope repository.HarvestScope, harvestID string, input HarvestInput) (*models.Harvest, error)

	Delete(ctx context.Context, scope repository.HarvestScope, harvestID string) error
}

type harvestService struct {
	zones    repository.ZoneRepository
	harvests repository.HarvestRepository
	loc      *time.Location
	log      *logger.Logger
}

// NewHarvestService creates a new instance of HarvestService. Harvest dates
// are read as midnight in loc.
func NewHarvestService(
	zones repository.ZoneRepository,
	harvests repository.HarvestRepository,
	loc *time.Location,
	log *logger.Logger,
) HarvestService {
	if loc == nil {
		loc = time.Local
	}
	return &harvestService{zones: zones, harvests: harvests, loc: loc, log: log}
}

func (s *harvestService) parseInput(input HarvestInput) (models.HarvestFields, error) {
	date, err := validation.RequireDate(FieldDate, input.Date, s.loc)
	if err != nil {
		return models.HarvestFields{}, err
	}
	weight, err := validation.ParseWeight(input.Weight)
	if err != nil {
		return models.HarvestFields{}, err
	}
	crop, err := validation.RequireText(FieldCrop, input.Crop)
	if err != nil {
		return models.HarvestFields{}, err
	}
	return models.HarvestFields{
		Date:     date,
		WeightKg: weight,
		Crop:     crop,
		Notes:    strings.TrimSpace(input.Notes),
	}, nil
}

func harvestFields(scope repository.HarvestScope) map[string]interface{} {
	return map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
		"zone_id":   scope.ZoneID,
	}
}

func (s *harvestService) List(ctx context.Context, scope repository.HarvestScope) ([]models.Harvest, error) {
	harvests, err := s.harvests.List(ctx, scope)
	if err != nil {
		s.log.Error("Failed to list harvests", err, harvestFields(scope))
		return nil, fmt.Errorf("failed to list harvests: %w", err)
	}
	return harvests, nil
}

func (s *harvestService) Summary(ctx context.Context, scope repository.HarvestScope) (*HarvestSummary, error) {
	harvests, err := s.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	summary := SummarizeHarvests(harvests)
	return &summary, nil
}

func (s *harvestService) Get(ctx context.Context, scope repository.HarvestScope, harvestID string) (*models.Harvest, error) {
	harvest, err := s.harvests.Get(ctx, scope, harvestID)
	if err != nil {
		s.log.Error("Failed to load harvest", err, harvestFields(scope))
		return nil, fmt.Errorf("failed to load harvest: %w", err)
	}
	if harvest == nil {
		return nil, ErrHarvestNotFound
	}
	return harvest, nil
}

func (s *harvestService) Create(ctx context.Context, scope repository.HarvestScope, input HarvestInput) (*models.Harvest, error) {
	fields, err := s.parseInput(input)
	if err != nil {
		s.log.Warn("Harvest form rejected", map[string]interface{}{
			"user_id": scope.UserID,
			"reason":  err.Error(),
		})
		return nil, err
	}

	zoneScope := repository.ZoneScope{UserID: scope.UserID, ParcelID: scope.ParcelID}
	zone, err := s.zones.Get(ctx, zoneScope, scope.ZoneID)
	if err != nil {
		s.log.Error("Failed to load parent zone", err, harvestFields(scope))
		return nil, fmt.Errorf("failed to load zone: %w", err)
	}
	if zone == nil {
		return nil, ErrZoneNotFound
	}

	id, err := s.harvests.Add(ctx, scope, fields)
	if err != nil {
		s.log.Error("Failed to create harvest", err, harvestFields(scope))
		return nil, fmt.Errorf("failed to create harvest: %w", err)
	}

	s.log.Info("Harvest recorded", map[string]interface{}{
		"user_id":    scope.UserID,
		"zone_id":    scope.ZoneID,
		"harvest_id": id,
		"crop":       fields.Crop,
		"weight_kg":  fields.WeightKg,
	})
	return s.Get(ctx, scope, id)
}

func (s *harvestService) Update(ctx context.Context, scope repository.HarvestScope, harvestID string, input HarvestInput) (*models.Harvest, error) {
	fields, err := s.parseInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, scope, harvestID); err != nil {
		return nil, err
	}

	if err := s.harvests.Update(ctx, scope, harvestID, fields.Patch()); err != nil {
		s.log.Error("Failed to update harvest", err, harvestFields(scope))
		return nil, fmt.Errorf("failed to update harvest: %w", err)
	}

	s.log.Info("Harvest updated", map[string]interface{}{
		"user_id":    scope.UserID,
		"zone_id":    scope.ZoneID,
		"harvest_id": harvestID,
	})
	return s.Get(ctx, scope, harvestID)
}

func (s *harvestService) Delete(ctx context.Context, scope repository.HarvestScope, harvestID string) error {
	if err := s.harvests.Delete(ctx, scope, harvestID); err != nil {
		s.log.Error("Failed to delete harvest", err, harvestFields(scope))
		return fmt.Errorf("failed to delete harvest: %w", err)
	}

	s.log.Info("Harvest deleted", map[string]interface{}{
		"user_id":    scope.UserID,
		"zone_id":    scope.ZoneID,
		"harvest_id": harvestID,
	})
	return nil
}
