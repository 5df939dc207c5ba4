package database

import (
	"context"
	"fmt"

	"github.com/Atig-Hamza/RecoleCheck/internal/config"
	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
)

// OpenStore opens the document store selected by cfg.Store.Driver. The
// returned close function releases everything that was opened.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := docstore.NewMemoryStore()
		return store, func() { _ = store.Close() }, nil

	case config.DriverPostgres:
		db, err := NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, err := docstore.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		store, err := docstore.NewSQLiteStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
