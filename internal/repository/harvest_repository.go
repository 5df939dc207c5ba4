package repository

import (
	"context"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
)

// HarvestRepository defines data access for the harvests of a zone.
type HarvestRepository interface {
	// List returns the zone's harvests, most recent harvest date first.
	List(ctx context.Context, scope HarvestScope) ([]models.Harvest, error)

	// Get returns nil, nil if no harvest exists with that id.
	Get(ctx context.Context, scope HarvestScope, id string) (*models.Harvest, error)

	Add(ctx context.Context, scope HarvestScope, fields models.HarvestFields) (string, error)

	// Update is an unchecked path write.
	Update(ctx context.Context, scope HarvestScope, id string, patch models.HarvestPatch) error

	Delete(ctx context.Context, scope HarvestScope, id string) error
}

type harvestRepository struct {
	records *collection[models.Harvest]
}

// NewHarvestRepository creates a HarvestRepository over store.
func NewHarvestRepository(store docstore.Store, clock Clock) HarvestRepository {
	return &harvestRepository{
		records: &collection[models.Harvest]{
			store:  store,
			clock:  clock,
			order:  docstore.OrderBy{Field: models.FieldDate, Direction: docstore.Descending},
			decode: models.DecodeHarvest,
		},
	}
}

func (r *harvestRepository) List(ctx context.Context, scope HarvestScope) ([]models.Harvest, error) {
	return r.records.list(ctx, scope.collection())
}

func (r *harvestRepository) Get(ctx context.Context, scope HarvestScope, id string) (*models.Harvest, error) {
	return r.records.get(ctx, scope.collection().Child(id))
}

func (r *harvestRepository) Add(ctx context.Context, scope HarvestScope, fields models.HarvestFields) (string, error) {
	return r.records.add(ctx, scope.collection(), fields.Data())
}

func (r *harvestRepository) Update(ctx context.Context, scope HarvestScope, id string, patch models.HarvestPatch) error {
	return r.records.update(ctx, scope.collection().Child(id), patch.Data())
}

func (r *harvestRepository) Delete(ctx context.Context, scope HarvestScope, id string) error {
	return r.records.remove(ctx, scope.collection().Child(id))
}
