package repository

import (
	"context"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
)

// ParcelRepository defines data access for a user's parcels.
type ParcelRepository interface {
	// List returns the user's parcels, newest first.
	// Returns an empty slice if the user has none.
	List(ctx context.Context, scope ParcelScope) ([]models.Parcel, error)

	// Get returns one parcel.
	// Returns nil, nil if no parcel exists with that id.
	Get(ctx context.Context, scope ParcelScope, id string) (*models.Parcel, error)

	// Add stores a new parcel stamped with the current time and returns its id.
	Add(ctx context.Context, scope ParcelScope, fields models.ParcelFields) (string, error)

	// Update writes the fields present in patch. It is an unchecked path
	// write: updating a parcel that does not exist does nothing.
	Update(ctx context.Context, scope ParcelScope, id string, patch models.ParcelPatch) error

	// Delete removes the parcel document only. Its zones and harvests are
	// not removed. Deleting a missing parcel is not an error.
	Delete(ctx context.Context, scope ParcelScope, id string) error
}

type parcelRepository struct {
	records *collection[models.Parcel]
}

// NewParcelRepository creates a ParcelRepository over store.
func NewParcelRepository(store docstore.Store, clock Clock) ParcelRepository {
	return &parcelRepository{
		records: &collection[models.Parcel]{
			store:  store,
			clock:  clock,
			order:  docstore.OrderBy{Field: models.FieldCreatedAt, Direction: docstore.Descending},
			decode: models.DecodeParcel,
		},
	}
}

func (r *parcelRepository) List(ctx context.Context, scope ParcelScope) ([]models.Parcel, error) {
	return r.records.list(ctx, scope.collection())
}

func (r *parcelRepository) Get(ctx context.Context, scope ParcelScope, id string) (*models.Parcel, error) {
	return r.records.get(ctx, scope.collection().Child(id))
}

func (r *parcelRepository) Add(ctx context.Context, scope ParcelScope, fields models.ParcelFields) (string, error) {
	return r.records.add(ctx, scope.collection(), fields.Data())
}

func (r *parcelRepository) Update(ctx context.Context, scope ParcelScope, id string, patch models.ParcelPatch) error {
	return r.records.update(ctx, scope.collection().Child(id), patch.Data())
}

func (r *parcelRepository) Delete(ctx context.Context, scope ParcelScope, id string) error {
	return r.records.remove(ctx, scope.collection().Child(id))
}
