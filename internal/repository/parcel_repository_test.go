package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one minute per call so creation order is observable.
func tickingClock(start time.Time) Clock {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// failingStore fails every operation with err.
type failingStore struct {
	docstore.Store
	err error
}

func (s failingStore) Get(context.Context, docstore.Path) (*docstore.Document, error) {
	return nil, s.err
}

func (s failingStore) List(context.Context, docstore.Path, docstore.OrderBy) ([]docstore.Document, error) {
	return nil, s.err
}

func (s failingStore) Add(context.Context, docstore.Path, docstore.Data) (string, error) {
	return "", s.err
}

func (s failingStore) Set(context.Context, docstore.Path, docstore.Data, docstore.SetOptions) error {
	return s.err
}

func (s failingStore) Update(context.Context, docstore.Path, docstore.Data) error {
	return s.err
}

func (s failingStore) Delete(context.Context, docstore.Path) error {
	return s.err
}

func TestParcelRepository_AddThenList(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), tickingClock(epoch))
	scope := ParcelScope{UserID: "u1"}

	id, err := repo.Add(ctx, scope, models.ParcelFields{
		Name:            "North Field",
		SurfaceHectares: 2.5,
		Crops:           []string{"Wheat", "Corn"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	parcels, err := repo.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, parcels, 1)

	got := parcels[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "North Field", got.Name)
	assert.Equal(t, 2.5, got.SurfaceHectares)
	assert.Equal(t, []string{"Wheat", "Corn"}, got.Crops)
	assert.Equal(t, epoch.Add(time.Minute).UnixMilli(), got.CreatedAt)
}

func TestParcelRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), tickingClock(epoch))
	scope := ParcelScope{UserID: "u1"}

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.Add(ctx, scope, models.ParcelFields{Name: name, SurfaceHectares: 1})
		require.NoError(t, err)
	}

	parcels, err := repo.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, parcels, 3)
	assert.Equal(t, "third", parcels[0].Name)
	assert.Equal(t, "second", parcels[1].Name)
	assert.Equal(t, "first", parcels[2].Name)
}

func TestParcelRepository_ListEmptyScope(t *testing.T) {
	repo := NewParcelRepository(docstore.NewMemoryStore(), SystemClock)

	parcels, err := repo.List(context.Background(), ParcelScope{UserID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, parcels)
	assert.Empty(t, parcels)
}

func TestParcelRepository_ScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), SystemClock)

	id, err := repo.Add(ctx, ParcelScope{UserID: "u1"}, models.ParcelFields{Name: "Mine", SurfaceHectares: 1})
	require.NoError(t, err)

	other := ParcelScope{UserID: "u2"}
	parcel, err := repo.Get(ctx, other, id)
	require.NoError(t, err)
	assert.Nil(t, parcel)

	parcels, err := repo.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, parcels)
}

func TestParcelRepository_GetMissing(t *testing.T) {
	repo := NewParcelRepository(docstore.NewMemoryStore(), SystemClock)

	parcel, err := repo.Get(context.Background(), ParcelScope{UserID: "u1"}, "missing")
	assert.NoError(t, err)
	assert.Nil(t, parcel)
}

func TestParcelRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), tickingClock(epoch))
	scope := ParcelScope{UserID: "u1"}

	id, err := repo.Add(ctx, scope, models.ParcelFields{Name: "North", SurfaceHectares: 1, Crops: []string{"Wheat"}})
	require.NoError(t, err)

	surface := 4.0
	require.NoError(t, repo.Update(ctx, scope, id, models.ParcelPatch{SurfaceHectares: &surface}))

	parcel, err := repo.Get(ctx, scope, id)
	require.NoError(t, err)
	require.NotNil(t, parcel)
	assert.Equal(t, "North", parcel.Name)
	assert.Equal(t, 4.0, parcel.SurfaceHectares)
	assert.Equal(t, []string{"Wheat"}, parcel.Crops)
	assert.Equal(t, epoch.Add(time.Minute).UnixMilli(), parcel.CreatedAt)
}

func TestParcelRepository_UpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), SystemClock)
	scope := ParcelScope{UserID: "u1"}

	name := "ghost"
	require.NoError(t, repo.Update(ctx, scope, "missing", models.ParcelPatch{Name: &name}))

	parcels, err := repo.List(ctx, scope)
	require.NoError(t, err)
	assert.Empty(t, parcels)
}

func TestParcelRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewParcelRepository(docstore.NewMemoryStore(), SystemClock)
	scope := ParcelScope{UserID: "u1"}

	id, err := repo.Add(ctx, scope, models.ParcelFields{Name: "North", SurfaceHectares: 1})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, scope, id))
	require.NoError(t, repo.Delete(ctx, scope, id))

	parcel, err := repo.Get(ctx, scope, id)
	require.NoError(t, err)
	assert.Nil(t, parcel)
}

func TestParcelRepository_StoreFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("connection reset")
	repo := NewParcelRepository(failingStore{err: cause}, SystemClock)
	scope := ParcelScope{UserID: "u1"}

	_, err := repo.List(ctx, scope)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "list", storageErr.Op)
	assert.Equal(t, "users/u1/parcelles", storageErr.Path)
	assert.ErrorIs(t, err, cause)

	_, err = repo.Get(ctx, scope, "p1")
	assert.ErrorAs(t, err, &storageErr)

	_, err = repo.Add(ctx, scope, models.ParcelFields{Name: "x", SurfaceHectares: 1})
	assert.ErrorAs(t, err, &storageErr)

	err = repo.Update(ctx, scope, "p1", models.ParcelPatch{})
	assert.ErrorAs(t, err, &storageErr)

	err = repo.Delete(ctx, scope, "p1")
	assert.ErrorAs(t, err, &storageErr)
}

func TestParcelRepository_MalformedDocument(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repo := NewParcelRepository(store, SystemClock)
	scope := ParcelScope{UserID: "u1"}

	id, err := store.Add(ctx, scope.collection(), docstore.Data{models.FieldCreatedAt: 1})
	require.NoError(t, err)

	_, err = repo.Get(ctx, scope, id)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "decode", storageErr.Op)
	assert.ErrorIs(t, err, models.ErrMalformedDocument)

	_, err = repo.List(ctx, scope)
	assert.ErrorIs(t, err, models.ErrMalformedDocument)
}
