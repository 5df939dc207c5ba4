package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	path       TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
`

// SQLiteStore keeps documents as JSON text rows and relies on the JSON1
// functions for merges and ordering. Merges go through json_patch, so a
// field written as null is removed rather than stored.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the documents table if needed. The store takes
// ownership of db and closes it on Close.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create documents schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, doc Path) (*Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ?`, doc.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", doc, err)
	}

	data, err := decode([]byte(raw))
	if err != nil {
		return nil, err
	}
	return &Document{ID: doc.ID(), Path: doc, Data: data}, nil
}

func (s *SQLiteStore) List(ctx context.Context, col Path, order OrderBy) ([]Document, error) {
	if err := checkCollection(col); err != nil {
		return nil, err
	}
	if err := checkField(order.Field); err != nil {
		return nil, err
	}

	jsonPath := "$." + order.Field
	query := fmt.Sprintf(`
		SELECT id, data
		FROM documents
		WHERE collection = ? AND json_type(data, ?) IS NOT NULL
		ORDER BY json_extract(data, ?) %s, id ASC
	`, order.Direction)

	rows, err := s.db.QueryContext(ctx, query, col.String(), jsonPath, jsonPath)
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", col, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]Document, 0)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		data, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Path: col.Child(id), Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

func (s *SQLiteStore) Add(ctx context.Context, col Path, data Data) (string, error) {
	if err := checkCollection(col); err != nil {
		return "", err
	}
	raw, err := encode(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	doc := col.Child(id)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (path, collection, id, data) VALUES (?, ?, ?, json(?))`,
		doc.String(), col.String(), id, string(raw),
	)
	if err != nil {
		return "", fmt.Errorf("add document to %s: %w", col, err)
	}
	return id, nil
}

func (s *SQLiteStore) Set(ctx context.Context, doc Path, data Data, opts SetOptions) error {
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

	onConflict := `data = json(?5)`
	if opts.Merge {
		onConflict = `data = json_patch(documents.data, json(?5))`
	}

	query := `
		INSERT INTO documents (path, collection, id, data)
		VALUES (?1, ?2, ?3, json_patch(json(?4), json(?5)))
		ON CONFLICT (path) DO UPDATE SET ` + onConflict + `, updated_at = CURRENT_TIMESTAMP
	`
	_, err = s.db.ExecContext(ctx, query, doc.String(), doc.Parent().String(), doc.ID(), string(createOnly), string(raw))
	if err != nil {
		return fmt.Errorf("set document %s: %w", doc, err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (path, collection, id, data)
		VALUES (?, ?, ?, json(?))
		ON CONFLICT (path) DO NOTHING
	`, doc.String(), doc.Parent().String(), doc.ID(), string(raw))
	if err != nil {
		return fmt.Errorf("create document %s: %w", doc, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create document %s: %w", doc, err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	raw, err := encode(data)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET data = json_patch(data, json(?)), updated_at = CURRENT_TIMESTAMP WHERE path = ?`,
		string(raw), doc.String(),
	)
	if err != nil {
		return fmt.Errorf("update document %s: %w", doc, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document %s: %w", doc, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, doc Path) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, doc.String()); err != nil {
		return fmt.Errorf("delete document %s: %w", doc, err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
