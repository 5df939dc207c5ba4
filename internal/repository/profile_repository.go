package repository

import (
	"context"
	"errors"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
)

// ProfileRepository defines data access for the single profile document of a user.
type ProfileRepository interface {
	// Get returns the user's profile.
	// Returns nil, nil if the user has no profile yet.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)

	// Set creates the profile or merges fields into the existing one.
	// createdAt is written only when the profile is created.
	Set(ctx context.Context, userID string, fields models.ProfileFields) error

	// Update changes only the fields present in patch.
	// Returns ErrNotFound if the user has no profile.
	Update(ctx context.Context, userID string, patch models.ProfilePatch) error
}

type profileRepository struct {
	store docstore.Store
	clock Clock
}

// NewProfileRepository creates a ProfileRepository over store.
func NewProfileRepository(store docstore.Store, clock Clock) ProfileRepository {
	return &profileRepository{store: store, clock: clock}
}

func profilePath(userID string) docstore.Path {
	return docstore.Doc(CollectionUsers, userID)
}

func (r *profileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	path := profilePath(userID)

	doc, err := r.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, storageError("get", path, err)
	}

	profile, err := models.DecodeProfile(*doc)
	if err != nil {
		return nil, storageError("decode", path, err)
	}
	return profile, nil
}

func (r *profileRepository) Set(ctx context.Context, userID string, fields models.ProfileFields) error {
	path := profilePath(userID)

	opts := docstore.SetOptions{
		Merge:      true,
		CreateOnly: docstore.Data{models.FieldCreatedAt: r.clock.millis()},
	}
	if err := r.store.Set(ctx, path, fields.Data(), opts); err != nil {
		return storageError("set", path, err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, userID string, patch models.ProfilePatch) error {
	path := profilePath(userID)

	if err := r.store.Update(ctx, path, patch.Data()); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrNotFound
		}
		return storageError("update", path, err)
	}
	return nil
}
