package docstore

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	path Path
	data Data
}

// MemoryStore keeps documents in process memory. It backs development runs
// and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, doc Path) (*Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.docs[doc.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: doc.ID(), Path: entry.path, Data: maps.Clone(entry.data)}, nil
}

func (s *MemoryStore) List(ctx context.Context, col Path, order OrderBy) ([]Document, error) {
	if err := checkCollection(col); err != nil {
		return nil, err
	}
	if err := checkField(order.Field); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent := col.String()

	s.mu.RLock()
	docs := make([]Document, 0)
	for _, entry := range s.docs {
		if entry.path.Parent().String() != parent {
			continue
		}
		if _, ok := entry.data[order.Field]; !ok {
			continue
		}
		docs = append(docs, Document{ID: entry.path.ID(), Path: entry.path, Data: maps.Clone(entry.data)})
	}
	s.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i].Data[order.Field], docs[j].Data[order.Field])
		if c == 0 {
			return docs[i].ID < docs[j].ID
		}
		if order.Direction == Descending {
			return c > 0
		}
		return c < 0
	})

	return docs, nil
}

func (s *MemoryStore) Add(ctx context.Context, col Path, data Data) (string, error) {
	if err := checkCollection(col); err != nil {
		return "", err
	}
	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := uuid.NewString()
		doc := col.Child(id)
		if _, exists := s.docs[doc.String()]; exists {
			continue
		}
		s.docs[doc.String()] = memoryEntry{path: doc, data: normalized}
		return id, nil
	}
}

func (s *MemoryStore) Set(ctx context.Context, doc Path, data Data, opts SetOptions) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	createOnly, err := normalize(opts.CreateOnly)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.String()
	existing, exists := s.docs[key]

	var next Data
	switch {
	case exists && opts.Merge:
		next = maps.Clone(existing.data)
		maps.Copy(next, normalized)
	case exists:
		next = normalized
	default:
		next = createOnly
		maps.Copy(next, normalized)
	}

	s.docs[key] = memoryEntry{path: append(Path(nil), doc...), data: next}
	return nil
}

func (s *MemoryStore) Create(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.String()
	if _, exists := s.docs[key]; exists {
		return ErrAlreadyExists
	}
	s.docs[key] = memoryEntry{path: append(Path(nil), doc...), data: normalized}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, doc Path, data Data) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.String()
	existing, ok := s.docs[key]
	if !ok {
		return ErrNotFound
	}
	next := maps.Clone(existing.data)
	maps.Copy(next, normalized)
	s.docs[key] = memoryEntry{path: existing.path, data: next}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, doc Path) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, doc.String())
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

// compareValues orders decoded JSON values: nil < bool < number < string,
// anything else last.
func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}
	return 0
}

func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}
