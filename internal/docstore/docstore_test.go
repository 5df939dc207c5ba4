package docstore

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// backends returns every store the conformance suite runs against.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newTestSQLiteStore(t),
	}
	if pg := newTestPostgresStore(t); pg != nil {
		stores["postgres"] = pg
	}
	return stores
}

func newTestSQLiteStore(t *testing.T) Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// newTestPostgresStore returns nil unless TEST_DATABASE_URL points at a database.
func newTestPostgresStore(t *testing.T) Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" || testing.Short() {
		return nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := NewPostgresStore(ctx, pool)
	require.NoError(t, err)
	return store
}

// root gives each test its own user so shared databases do not collide.
func root() Path {
	return Doc("users", uuid.NewString())
}

func TestStore_AddGet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := root().Child("parcelles")

			id, err := store.Add(ctx, col, Data{
				"name":            "Olive Grove",
				"surfaceHectares": 2.5,
				"crops":           []string{"Olives"},
				"createdAt":       int64(1767225600000),
			})
			require.NoError(t, err)
			require.NotEmpty(t, id)

			doc, err := store.Get(ctx, col.Child(id))
			require.NoError(t, err)
			assert.Equal(t, id, doc.ID)
			assert.Equal(t, "Olive Grove", doc.Data["name"])
			assert.Equal(t, 2.5, doc.Data["surfaceHectares"])
			assert.Equal(t, []any{"Olives"}, doc.Data["crops"])
			assert.Equal(t, float64(1767225600000), doc.Data["createdAt"])
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), root().Child("parcelles", "missing"))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_AddGeneratesDistinctIDs(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := root().Child("parcelles")

			seen := make(map[string]bool)
			for i := 0; i < 20; i++ {
				id, err := store.Add(ctx, col, Data{"createdAt": i})
				require.NoError(t, err)
				assert.False(t, seen[id], "id %s reused", id)
				seen[id] = true
			}
		})
	}
}

func TestStore_ListOrdering(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := root().Child("parcelles")

			for _, v := range []int{20, 5, 300} {
				_, err := store.Add(ctx, col, Data{"createdAt": v})
				require.NoError(t, err)
			}
			// Documents without the order field are not listed.
			_, err := store.Add(ctx, col, Data{"name": "no timestamp"})
			require.NoError(t, err)

			desc, err := store.List(ctx, col, OrderBy{Field: "createdAt", Direction: Descending})
			require.NoError(t, err)
			require.Len(t, desc, 3)
			assert.Equal(t, float64(300), desc[0].Data["createdAt"])
			assert.Equal(t, float64(20), desc[1].Data["createdAt"])
			assert.Equal(t, float64(5), desc[2].Data["createdAt"])

			asc, err := store.List(ctx, col, OrderBy{Field: "createdAt", Direction: Ascending})
			require.NoError(t, err)
			require.Len(t, asc, 3)
			assert.Equal(t, float64(5), asc[0].Data["createdAt"])
			assert.Equal(t, col.Child(asc[0].ID), asc[0].Path)
		})
	}
}

func TestStore_ListOnlyDirectChildren(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			parcels := root().Child("parcelles")

			parcelID, err := store.Add(ctx, parcels, Data{"createdAt": 1})
			require.NoError(t, err)
			_, err = store.Add(ctx, parcels.Child(parcelID, "zones"), Data{"createdAt": 2})
			require.NoError(t, err)

			docs, err := store.List(ctx, parcels, OrderBy{Field: "createdAt", Direction: Descending})
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, parcelID, docs[0].ID)
		})
	}
}

func TestStore_ListEmpty(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			docs, err := store.List(context.Background(), root().Child("parcelles"), OrderBy{Field: "createdAt"})
			require.NoError(t, err)
			assert.NotNil(t, docs)
			assert.Empty(t, docs)
		})
	}
}

func TestStore_SetMergeKeepsCreateOnlyFields(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc := root()

			err := store.Set(ctx, doc, Data{"firstName": "Amina", "phone": "0600"},
				SetOptions{Merge: true, CreateOnly: Data{"createdAt": 100}})
			require.NoError(t, err)

			err = store.Set(ctx, doc, Data{"firstName": "Amira"},
				SetOptions{Merge: true, CreateOnly: Data{"createdAt": 999}})
			require.NoError(t, err)

			got, err := store.Get(ctx, doc)
			require.NoError(t, err)
			assert.Equal(t, "Amira", got.Data["firstName"])
			assert.Equal(t, "0600", got.Data["phone"])
			assert.Equal(t, float64(100), got.Data["createdAt"])
		})
	}
}

func TestStore_SetWithoutMergeReplaces(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc := root()

			require.NoError(t, store.Set(ctx, doc, Data{"a": "1", "b": "2"},
				SetOptions{CreateOnly: Data{"createdAt": 10}}))

			got, err := store.Get(ctx, doc)
			require.NoError(t, err)
			assert.Equal(t, Data{"a": "1", "b": "2", "createdAt": float64(10)}, got.Data)

			// The document exists now, so createdAt is not written again.
			require.NoError(t, store.Set(ctx, doc, Data{"a": "3"},
				SetOptions{CreateOnly: Data{"createdAt": 20}}))

			got, err = store.Get(ctx, doc)
			require.NoError(t, err)
			assert.Equal(t, Data{"a": "3"}, got.Data)
		})
	}
}

func TestStore_Create(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc := root().Child("identities", "amina@example.com")

			require.NoError(t, store.Create(ctx, doc, Data{"userId": "u1"}))

			err := store.Create(ctx, doc, Data{"userId": "u2"})
			assert.ErrorIs(t, err, ErrAlreadyExists)

			got, err := store.Get(ctx, doc)
			require.NoError(t, err)
			assert.Equal(t, "u1", got.Data["userId"])
		})
	}
}

func TestStore_CreateConcurrent(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			doc := root().Child("identities", "amina@example.com")

			const writers = 8
			var created atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					err := store.Create(ctx, doc, Data{"writer": i})
					if err == nil {
						created.Add(1)
						return
					}
					assert.ErrorIs(t, err, ErrAlreadyExists)
				}(i)
			}
			wg.Wait()

			assert.Equal(t, int32(1), created.Load())
		})
	}
}

func TestStore_Update(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			col := root().Child("parcelles")

			id, err := store.Add(ctx, col, Data{"name": "North", "surfaceHectares": 1.5, "createdAt": 10})
			require.NoError(t, err)

			require.NoError(t, store.Update(ctx, col.Child(id), Data{"name": "South"}))

			got, err := store.Get(ctx, col.Child(id))
			require.NoError(t, err)
			assert.Equal(t, "South", got.Data["name"])
			assert.Equal(t, 1.5, got.Data["surfaceHectares"])
			assert.Equal(t, float64(10), got.Data["createdAt"])

			err = store.Update(ctx, col.Child("missing"), Data{"name": "x"})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_DeleteIsIdempotentAndDoesNotCascade(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			parcels := root().Child("parcelles")

			parcelID, err := store.Add(ctx, parcels, Data{"createdAt": 1})
			require.NoError(t, err)
			zones := parcels.Child(parcelID, "zones")
			zoneID, err := store.Add(ctx, zones, Data{"createdAt": 2})
			require.NoError(t, err)

			require.NoError(t, store.Delete(ctx, parcels.Child(parcelID)))
			require.NoError(t, store.Delete(ctx, parcels.Child(parcelID)))

			_, err = store.Get(ctx, parcels.Child(parcelID))
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = store.Get(ctx, zones.Child(zoneID))
			assert.NoError(t, err)
		})
	}
}

func TestStore_InvalidPaths(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, Col("users"))
			assert.ErrorIs(t, err, ErrInvalidPath)

			_, err = store.Add(ctx, Doc("users", "u1"), Data{})
			assert.ErrorIs(t, err, ErrInvalidPath)

			_, err = store.Get(ctx, Doc("users", ""))
			assert.ErrorIs(t, err, ErrInvalidPath)

			_, err = store.Get(ctx, Doc("users", "a/b"))
			assert.ErrorIs(t, err, ErrInvalidPath)

			_, err = store.List(ctx, Col("users"), OrderBy{Field: "created At"})
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestPath(t *testing.T) {
	p := Doc("users", "u1", "parcelles", "p1")

	assert.True(t, p.IsDocument())
	assert.False(t, p.IsCollection())
	assert.Equal(t, "p1", p.ID())
	assert.Equal(t, "users/u1/parcelles", p.Parent().String())
	assert.Equal(t, "users/u1/parcelles/p1/zones", p.Child("zones").String())

	// Child must not alias the receiver's backing array.
	base := Col("users", "u1", "parcelles")[:2]
	a := base.Child("x")
	b := base.Child("y")
	assert.Equal(t, "users/u1/x", a.String())
	assert.Equal(t, "users/u1/y", b.String())
}

func TestCompareValues(t *testing.T) {
	assert.Less(t, compareValues(nil, false), 0)
	assert.Less(t, compareValues(true, 1.0), 0)
	assert.Less(t, compareValues(2.0, "a"), 0)
	assert.Equal(t, 0, compareValues(3.0, 3.0))
	assert.Greater(t, compareValues("b", "a"), 0)
	assert.Greater(t, compareValues(true, false), 0)
}
