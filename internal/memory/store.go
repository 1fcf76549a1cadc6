// Package memory implements the Store interface with in-process tables.
// Nothing is persisted; embedders and tests use it for isolated state.
package memory

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// table holds one kind's rows keyed by id plus the insertion order of ids,
// so ListAll stays deterministic.
type table struct {
	rows  map[string]types.Row
	order []string
}

// Store is an in-memory types.Store. A RWMutex guards all tables; every
// operation appears atomic to callers.
type Store struct {
	mu     sync.RWMutex
	tables map[types.Kind]*table
}

// New creates an empty in-memory store with one table per entity kind.
func New() *Store {
	tables := make(map[types.Kind]*table, len(types.Kinds))
	for _, kind := range types.Kinds {
		tables[kind] = &table{rows: make(map[string]types.Row)}
	}
	return &Store{tables: tables}
}

// Close releases nothing; it exists so all backends share a lifecycle.
func (s *Store) Close() error {
	return nil
}

func (s *Store) table(kind types.Kind) (*table, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return t, nil
}

// ListAll returns copies of every row of the kind's table in insertion
// order.
func (s *Store) ListAll(kind types.Kind) ([]types.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	rows := make([]types.Row, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, copyRow(t.rows[id]))
	}
	return rows, nil
}

// Store inserts a new row. Returns ErrDuplicate if the id is taken.
func (s *Store) Store(kind types.Kind, row types.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	id := row[types.AttrID]
	if _, exists := t.rows[id]; exists {
		return fmt.Errorf("%w: %s/%s", types.ErrDuplicate, kind, id)
	}
	t.rows[id] = copyRow(row)
	t.order = append(t.order, id)
	return nil
}

// Update replaces the row with the given id, keeping its position.
// Returns ErrNotFound if the id is absent.
func (s *Store) Update(kind types.Kind, id string, row types.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	if _, exists := t.rows[id]; !exists {
		return fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
	}
	t.rows[id] = copyRow(row)
	return nil
}

// RemoveByID deletes the row with the given id. No-op when absent.
func (s *Store) RemoveByID(kind types.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	if _, exists := t.rows[id]; !exists {
		return nil
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// RetrieveByID returns a copy of the row with the given id.
func (s *Store) RetrieveByID(kind types.Kind, id string) (types.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	row, exists := t.rows[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
	}
	return copyRow(row), nil
}

// IsType reports whether the kind's table holds a row with the id.
func (s *Store) IsType(kind types.Kind, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table(kind)
	if err != nil {
		return false, err
	}
	_, exists := t.rows[id]
	return exists, nil
}

func copyRow(row types.Row) types.Row {
	cp := make(types.Row, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp
}
