// Package flatfile implements the Store interface with one CSV file per
// entity kind. Every mutation rewrites the whole table through a temp-file,
// fsync, rename sequence, so a crash never leaves a half-written table, and
// a per-kind mutex serializes writers.
package flatfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// fileNames maps each kind to its table file inside the data directory.
var fileNames = map[types.Kind]string{
	types.KindAbstract: "abstract.csv",
	types.KindPerson:   "persons.csv",
	types.KindGroup:    "groups.csv",
	types.KindPayment:  "payments.csv",
}

// Store is a flat-file types.Store rooted at one data directory.
type Store struct {
	dir   string
	locks map[types.Kind]*sync.Mutex
}

// Open creates the data directory if needed and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	locks := make(map[types.Kind]*sync.Mutex, len(types.Kinds))
	for _, kind := range types.Kinds {
		locks[kind] = &sync.Mutex{}
	}
	return &Store{dir: dir, locks: locks}, nil
}

// Close releases nothing; tables are rewritten eagerly on every mutation.
func (s *Store) Close() error {
	return nil
}

func (s *Store) lock(kind types.Kind) (*sync.Mutex, error) {
	mu, ok := s.locks[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return mu, nil
}

// ListAll returns every row of the kind's table in file order.
func (s *Store) ListAll(kind types.Kind) ([]types.Row, error) {
	mu, err := s.lock(kind)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.readTable(kind)
}

// Store appends a new row and rewrites the table.
// Returns ErrDuplicate if the id is taken.
func (s *Store) Store(kind types.Kind, row types.Row) error {
	mu, err := s.lock(kind)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(kind)
	if err != nil {
		return err
	}
	id := row[types.AttrID]
	for _, existing := range rows {
		if existing[types.AttrID] == id {
			return fmt.Errorf("%w: %s/%s", types.ErrDuplicate, kind, id)
		}
	}
	return s.writeTable(kind, append(rows, row))
}

// Update replaces the row with the given id in place and rewrites the
// table. Returns ErrNotFound if the id is absent.
func (s *Store) Update(kind types.Kind, id string, row types.Row) error {
	mu, err := s.lock(kind)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(kind)
	if err != nil {
		return err
	}
	for i, existing := range rows {
		if existing[types.AttrID] == id {
			rows[i] = row
			return s.writeTable(kind, rows)
		}
	}
	return fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
}

// RemoveByID drops the row with the given id and rewrites the table.
// No-op when the id is absent.
func (s *Store) RemoveByID(kind types.Kind, id string) error {
	mu, err := s.lock(kind)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(kind)
	if err != nil {
		return err
	}
	kept := rows[:0:0]
	for _, existing := range rows {
		if existing[types.AttrID] != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(rows) {
		return nil
	}
	return s.writeTable(kind, kept)
}

// RetrieveByID returns the row with the given id.
func (s *Store) RetrieveByID(kind types.Kind, id string) (types.Row, error) {
	mu, err := s.lock(kind)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(kind)
	if err != nil {
		return nil, err
	}
	for _, existing := range rows {
		if existing[types.AttrID] == id {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
}

// IsType reports whether the kind's table holds a row with the id.
func (s *Store) IsType(kind types.Kind, id string) (bool, error) {
	mu, err := s.lock(kind)
	if err != nil {
		return false, err
	}
	mu.Lock()
	defer mu.Unlock()

	rows, err := s.readTable(kind)
	if err != nil {
		return false, err
	}
	for _, existing := range rows {
		if existing[types.AttrID] == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) path(kind types.Kind) string {
	return filepath.Join(s.dir, fileNames[kind])
}

// header computes the column order for a table: id first, the remaining
// attribute names sorted, union across all rows.
func header(rows []types.Row) []string {
	seen := map[string]bool{types.AttrID: true}
	var names []string
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return append([]string{types.AttrID}, names...)
}

func (s *Store) writeTable(kind types.Kind, rows []types.Row) error {
	if err := writeCSV(s.path(kind), header(rows), rows); err != nil {
		return err
	}
	slog.Debug("rewrote table", "kind", kind, "rows", len(rows))
	return nil
}

func (s *Store) readTable(kind types.Kind) ([]types.Row, error) {
	return readCSV(s.path(kind))
}
