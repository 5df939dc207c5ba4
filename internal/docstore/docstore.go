// Package docstore is a hierarchical, path-addressed document store.
//
// Paths alternate collection and document segments, e.g.
// users/{userId}/parcelles/{parcelId}. A path with an odd number of segments
// names a collection, an even number names a document. Documents are flat JSON
// objects; every backend normalizes written data through encoding/json so
// numbers always read back as float64.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Store errors.
var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidPath   = errors.New("invalid document path")
	ErrInvalidField  = errors.New("invalid field name")
)

// Data is the field set of a document.
type Data map[string]any

// Document is a stored document together with its address.
type Document struct {
	ID   string
	Path Path
	Data Data
}

// Direction is a sort direction for List.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// OrderBy orders a listing on a single top-level field. Documents that lack
// the field are left out of the listing.
type OrderBy struct {
	Field     string
	Direction Direction
}

// SetOptions controls Set.
type SetOptions struct {
	// Merge keeps fields of an existing document that are not in the write.
	Merge bool
	// CreateOnly fields are written only when the document does not exist yet.
	// They are ignored whenever the document exists, with or without Merge.
	CreateOnly Data
}

// Store is implemented by every backend. All methods are safe for concurrent use.
type Store interface {
	// Get returns ErrNotFound when nothing is stored at doc.
	Get(ctx context.Context, doc Path) (*Document, error)
	// List returns the documents directly under col, ordered by order.
	// An empty collection yields an empty slice.
	List(ctx context.Context, col Path, order OrderBy) ([]Document, error)
	// Add stores data under col with a generated id and returns the id.
	Add(ctx context.Context, col Path, data Data) (string, error)
	// Create writes doc only if nothing is stored there yet, atomically.
	// It returns ErrAlreadyExists otherwise and leaves the stored document alone.
	Create(ctx context.Context, doc Path, data Data) error
	// Set writes doc, creating it if needed.
	Set(ctx context.Context, doc Path, data Data, opts SetOptions) error
	// Update merges data into an existing document. It returns ErrNotFound
	// when the document does not exist.
	Update(ctx context.Context, doc Path, data Data) error
	// Delete removes doc. Deleting a missing document is not an error.
	// Documents in sub-collections of doc are left untouched.
	Delete(ctx context.Context, doc Path) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Path addresses a collection or a document.
type Path []string

// Col builds a collection path.
func Col(segments ...string) Path {
	return Path(segments)
}

// Doc builds a document path.
func Doc(segments ...string) Path {
	return Path(segments)
}

// Child appends segments to p.
func (p Path) Child(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// IsDocument reports whether p names a document.
func (p Path) IsDocument() bool {
	return len(p) > 0 && len(p)%2 == 0
}

// IsCollection reports whether p names a collection.
func (p Path) IsCollection() bool {
	return len(p)%2 == 1
}

// ID is the last segment of p.
func (p Path) ID() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent is the collection containing a document path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

func (p Path) validSegments() bool {
	if len(p) == 0 {
		return false
	}
	for _, s := range p {
		if s == "" || strings.Contains(s, "/") {
			return false
		}
	}
	return true
}

func checkDocument(p Path) error {
	if !p.validSegments() || !p.IsDocument() {
		return fmt.Errorf("%w: %q is not a document path", ErrInvalidPath, p.String())
	}
	return nil
}

func checkCollection(p Path) error {
	if !p.validSegments() || !p.IsCollection() {
		return fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, p.String())
	}
	return nil
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

// encode marshals data to a JSON object. A nil map encodes as {}.
func encode(data Data) ([]byte, error) {
	if data == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (Data, error) {
	data := Data{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return data, nil
}

// normalize round-trips data through JSON.
func normalize(data Data) (Data, error) {
	raw, err := encode(data)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}
