package repository

import (
	"context"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
)

// ZoneRepository defines data access for the zones of a parcel.
type ZoneRepository interface {
	// List returns the parcel's zones, newest first.
	List(ctx context.Context, scope ZoneScope) ([]models.Zone, error)

	// Get returns nil, nil if no zone exists with that id.
	Get(ctx context.Context, scope ZoneScope, id string) (*models.Zone, error)

	Add(ctx context.Context, scope ZoneScope, fields models.ZoneFields) (string, error)

	// Update is an unchecked path write; a missing zone is left missing.
	Update(ctx context.Context, scope ZoneScope, id string, patch models.ZonePatch) error

	// Delete removes the zone document only, never its harvests.
	Delete(ctx context.Context, scope ZoneScope, id string) error
}

type zoneRepository struct {
	records *collection[models.Zone]
}

// NewZoneRepository creates a ZoneRepository over store.
func NewZoneRepository(store docstore.Store, clock Clock) ZoneRepository {
	return &zoneRepository{
		records: &collection[models.Zone]{
			store:  store,
			clock:  clock,
			order:  docstore.OrderBy{Field: models.FieldCreatedAt, Direction: docstore.Descending},
			decode: models.DecodeZone,
		},
	}
}

func (r *zoneRepository) List(ctx context.Context, scope ZoneScope) ([]models.Zone, error) {
	return r.records.list(ctx, scope.collection())
}

func (r *zoneRepository) Get(ctx context.Context, scope ZoneScope, id string) (*models.Zone, error) {
	return r.records.get(ctx, scope.collection().Child(id))
}

func (r *zoneRepository) Add(ctx context.Context, scope ZoneScope, fields models.ZoneFields) (string, error) {
	return r.records.add(ctx, scope.collection(), fields.Data())
}

func (r *zoneRepository) Update(ctx context.Context, scope ZoneScope, id string, patch models.ZonePatch) error {
	return r.records.update(ctx, scope.collection().Child(id), patch.Data())
}

func (r *zoneRepository) Delete(ctx context.Context, scope ZoneScope, id string) error {
	return r.records.remove(ctx, scope.collection().Child(id))
}
