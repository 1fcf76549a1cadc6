// Package sqlite implements the Store interface on a single SQLite
// database file. Updates are single-row upserts instead of table rewrites,
// so a crash mid-update can never drop a row.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tally/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// tableNames maps each kind to its SQLite table.
var tableNames = map[types.Kind]string{
	types.KindAbstract: "abstract",
	types.KindPerson:   "persons",
	types.KindGroup:    "groups",
	types.KindPayment:  "payments",
}

// Store is a SQLite-backed types.Store. A RWMutex guards the handle so
// every operation appears atomic to callers.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	slog.Debug("opened sqlite store", "path", path)
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// tableName returns the kind's table identifier, quoted so names like
// "groups" never collide with SQL keywords.
func tableName(kind types.Kind) (string, error) {
	name, ok := tableNames[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return `"` + name + `"`, nil
}

// ListAll returns every row of the kind's table in insertion order.
func (s *Store) ListAll(kind types.Kind) ([]types.Row, error) {
	name, err := tableName(kind)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT attrs FROM " + name + " ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", name, err)
	}
	defer rows.Close()

	var result []types.Row
	for rows.Next() {
		var attrsJSON string
		if err := rows.Scan(&attrsJSON); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", name, err)
		}
		row, err := decodeAttrs(attrsJSON)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Store inserts a new row. Returns ErrDuplicate if the id is taken.
func (s *Store) Store(kind types.Kind, row types.Row) error {
	name, err := tableName(kind)
	if err != nil {
		return err
	}
	attrsJSON, err := encodeAttrs(row)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := row[types.AttrID]
	exists, err := s.exists(name, id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s/%s", types.ErrDuplicate, kind, id)
	}
	if _, err := s.db.Exec(
		"INSERT INTO "+name+" (id, attrs) VALUES (?, ?)", id, attrsJSON); err != nil {
		return fmt.Errorf("inserting into %s: %w", name, err)
	}
	return nil
}

// Update replaces the row with the given id in a single statement.
// Returns ErrNotFound if the id is absent.
func (s *Store) Update(kind types.Kind, id string, row types.Row) error {
	name, err := tableName(kind)
	if err != nil {
		return err
	}
	attrsJSON, err := encodeAttrs(row)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE "+name+" SET attrs = ? WHERE id = ?", attrsJSON, id)
	if err != nil {
		return fmt.Errorf("updating %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
	}
	return nil
}

// RemoveByID deletes the row with the given id. No-op when absent.
func (s *Store) RemoveByID(kind types.Kind, id string) error {
	name, err := tableName(kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM "+name+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting from %s: %w", name, err)
	}
	return nil
}

// RetrieveByID returns the row with the given id.
func (s *Store) RetrieveByID(kind types.Kind, id string) (types.Row, error) {
	name, err := tableName(kind)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attrsJSON string
	err = s.db.QueryRow("SELECT attrs FROM "+name+" WHERE id = ?", id).Scan(&attrsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", types.ErrNotFound, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	return decodeAttrs(attrsJSON)
}

// IsType reports whether the kind's table holds a row with the id.
func (s *Store) IsType(kind types.Kind, id string) (bool, error) {
	name, err := tableName(kind)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exists(name, id)
}

func (s *Store) exists(table, id string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", table, err)
	}
	return true, nil
}

func encodeAttrs(row types.Row) (string, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("encoding row: %w", err)
	}
	return string(b), nil
}

func decodeAttrs(attrsJSON string) (types.Row, error) {
	var row types.Row
	if err := json.Unmarshal([]byte(attrsJSON), &row); err != nil {
		return nil, fmt.Errorf("decoding row: %w", err)
	}
	return row, nil
}
