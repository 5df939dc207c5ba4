// Package services applies the form rules of the farm records before they
// reach the repositories: input is trimmed, parsed and validated first, and
// nothing is written when a field is rejected.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
)

// Service-level errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrParcelNotFound  = errors.New("parcel not found")
	ErrZoneNotFound    = errors.New("zone not found")
	ErrHarvestNotFound = errors.New("harvest not found")
)

// Form field names reported in validation errors.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldName        = "name"
	FieldSurface     = "surface"
	FieldDate        = "date"
	FieldWeight      = "weight"
	FieldCrop        = "crop"
	FieldDescription = "description"
)

// cascade deletes the descendants of parcels and zones, children first.
type cascade struct {
	zones    repository.ZoneRepository
	harvests repository.HarvestRepository
	log      *logger.Logger
}

// deleteZoneChildren removes every harvest of a zone.
func (c *cascade) deleteZoneChildren(ctx context.Context, scope repository.HarvestScope) error {
	harvests, err := c.harvests.List(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to list harvests for cascade: %w", err)
	}
	for _, harvest := range harvests {
		if err := c.harvests.Delete(ctx, scope, harvest.ID); err != nil {
			return fmt.Errorf("failed to delete harvest %s: %w", harvest.ID, err)
		}
	}

	c.log.Debug("Deleted zone harvests", map[string]interface{}{
		"user_id":   scope.UserID,
		"parcel_id": scope.ParcelID,
		"zone_id":   scope.ZoneID,
		"count":     len(harvests),
	})
	return nil
}

// deleteParcelChildren removes every zone of a parcel together with its harvests.
func (c *cascade) deleteParcelChildren(ctx context.Context, scope repository.ZoneScope) error {
	zones, err := c.zones.List(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to list zones for cascade: %w", err)
	}
	for _, zone := range zones {
		if err := c.deleteZoneChildren(ctx, scope.Harvests(zone.ID)); err != nil {
			return err
		}
		if err := c.zones.Delete(ctx, scope, zone.ID); err != nil {
			return fmt.Errorf("failed to delete zone %s: %w", zone.ID, err)
		}
	}
	return nil
}
