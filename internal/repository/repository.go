// Package repository maps typed farm records onto the document store.
//
// Every record lives under its owner's document:
//
//	users/{userId}
//	users/{userId}/parcelles/{parcelId}
//	users/{userId}/parcelles/{parcelId}/zones/{zoneId}
//	users/{userId}/parcelles/{parcelId}/zones/{zoneId}/recoltes/{harvestId}
//
// Repositories only ever build paths below the user id they are given, so a
// caller holding one user's id cannot reach another user's records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
)

// Collection names.
const (
	CollectionUsers    = "users"
	CollectionParcels  = "parcelles"
	CollectionZones    = "zones"
	CollectionHarvests = "recoltes"
)

// ErrNotFound is returned by checked writes whose target does not exist.
var ErrNotFound = errors.New("record not found")

// StorageError wraps any failure of the underlying store, including documents
// that cannot be decoded into records.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, path docstore.Path, err error) error {
	return &StorageError{Op: op, Path: path.String(), Err: err}
}

// Clock returns the current time. Repositories stamp createdAt with it.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

func (c Clock) millis() int64 {
	if c == nil {
		return time.Now().UnixMilli()
	}
	return c().UnixMilli()
}

// ParcelScope selects the parcels of one user.
type ParcelScope struct {
	UserID string
}

func (s ParcelScope) collection() docstore.Path {
	return docstore.Col(CollectionUsers, s.UserID, CollectionParcels)
}

// Zones returns the scope of the zones of one of the user's parcels.
func (s ParcelScope) Zones(parcelID string) ZoneScope {
	return ZoneScope{UserID: s.UserID, ParcelID: parcelID}
}

// ZoneScope selects the zones of one parcel.
type ZoneScope struct {
	UserID   string
	ParcelID string
}

func (s ZoneScope) collection() docstore.Path {
	return docstore.Col(CollectionUsers, s.UserID, CollectionParcels, s.ParcelID, CollectionZones)
}

// Harvests returns the scope of the harvests of one of the parcel's zones.
func (s ZoneScope) Harvests(zoneID string) HarvestScope {
	return HarvestScope{UserID: s.UserID, ParcelID: s.ParcelID, ZoneID: zoneID}
}

// HarvestScope selects the harvests of one zone.
type HarvestScope struct {
	UserID   string
	ParcelID string
	ZoneID   string
}

func (s HarvestScope) collection() docstore.Path {
	return docstore.Col(CollectionUsers, s.UserID, CollectionParcels, s.ParcelID,
		CollectionZones, s.ZoneID, CollectionHarvests)
}

// collection is the shared CRUD over one kind of child record.
type collection[T any] struct {
	store  docstore.Store
	clock  Clock
	order  docstore.OrderBy
	decode func(docstore.Document) (*T, error)
}

func (c *collection[T]) list(ctx context.Context, col docstore.Path) ([]T, error) {
	docs, err := c.store.List(ctx, col, c.order)
	if err != nil {
		return nil, storageError("list", col, err)
	}

	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		record, err := c.decode(doc)
		if err != nil {
			return nil, storageError("decode", doc.Path, err)
		}
		records = append(records, *record)
	}
	return records, nil
}

// get returns nil, nil when nothing is stored at the path.
func (c *collection[T]) get(ctx context.Context, path docstore.Path) (*T, error) {
	doc, err := c.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, storageError("get", path, err)
	}

	record, err := c.decode(*doc)
	if err != nil {
		return nil, storageError("decode", path, err)
	}
	return record, nil
}

func (c *collection[T]) add(ctx context.Context, col docstore.Path, data docstore.Data) (string, error) {
	data[models.FieldCreatedAt] = c.clock.millis()

	id, err := c.store.Add(ctx, col, data)
	if err != nil {
		return "", storageError("add", col, err)
	}
	return id, nil
}

// update is an unchecked path write: a missing target is not an error.
func (c *collection[T]) update(ctx context.Context, path docstore.Path, data docstore.Data) error {
	delete(data, models.FieldCreatedAt)

	if err := c.store.Update(ctx, path, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return storageError("update", path, err)
	}
	return nil
}

func (c *collection[T]) remove(ctx context.Context, path docstore.Path) error {
	if err := c.store.Delete(ctx, path); err != nil {
		return storageError("delete", path, err)
	}
	return nil
}
