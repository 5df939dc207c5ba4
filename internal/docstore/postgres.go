package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
`

// PostgresStore keeps documents as JSONB rows in a single documents table,
// keyed by their full path.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the documents table if needed and returns a store
// backed by pool. The caller owns the pool.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create documents schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, doc Path) (*Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE path = $1`, doc.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", doc, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &Document{ID: doc.ID(), Path: doc, Data: data}, nil
}

func (s *PostgresStore) List(ctx context.Context, col Path, order OrderBy) ([]Document, error) {
	if err := checkCollection(col); err != nil {
		return nil, err
	}
	if err := checkField(order.Field); err != nil {
		return nil, err
	}

	// Direction is a closed enum.
	query := fmt.Sprintf(`
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data ? $2::text
		ORDER BY data -> $2::text %s, id ASC
	`, order.Direction)

	rows, err := s.pool.Query(ctx, query, col.String(), order.Field)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", col, err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		data, err := decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Path: col.Child(id), Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return docs, nil
}

func (s *PostgresStore) Add(ctx context.Context, col Path, data Data) (string, error) {
	if err := checkCollection(col); err != nil {
		return "", err
	}
	raw, err := encode(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	doc := col.Child(id)
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (path, collection, id, data) VALUES ($1, $2, $3, $4::jsonb)`,
		doc.String(), col.String(), id, string(raw),
	)
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", col, err)
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, doc Path, data Data, opts SetOptions) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}
	createOnly, err := encode(opts.CreateOnly)
	if err != nil {
		return err
	}

	onConflict := `data = $5::jsonb`
	if opts.Merge {
		onConflict = `data = documents.data || $5::jsonb`
	}

	query := `
		INSERT INTO documents (path, collection, id, data)
		VALUES ($1, $2, $3, $4::jsonb || $5::jsonb)
		ON CONFLICT (path) DO UPDATE SET ` + onConflict + `, updated_at = now()
	`
	_, err = s.pool.Exec(ctx, query, doc.String(), doc.Parent().String(), doc.ID(), string(createOnly), string(raw))
	if err != nil {
		return fmt.Errorf("failed to set document %s: %w", doc, err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO documents (path, collection, id, data)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (path) DO NOTHING
	`, doc.String(), doc.Parent().String(), doc.ID(), string(raw))
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", doc, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET data = data || $2::jsonb, updated_at = now() WHERE path = $1`,
		doc.String(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, doc Path) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE path = $1`, doc.String()); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", doc, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; the pool belongs to the caller.
func (s *PostgresStore) Close() error {
	return nil
}
