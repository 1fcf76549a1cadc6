package types

import "fmt"

// fakeStore is an isolated in-process Store for tests. It counts mutating
// calls so tests can assert the propagation write bound.
type fakeStore struct {
	tables map[Kind]map[string]Row
	order  map[Kind][]string
	writes int
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		tables: make(map[Kind]map[string]Row),
		order:  make(map[Kind][]string),
	}
	for _, kind := range Kinds {
		s.tables[kind] = make(map[string]Row)
	}
	return s
}

func (s *fakeStore) table(kind Kind) (map[string]Row, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return t, nil
}

func (s *fakeStore) ListAll(kind Kind) ([]Row, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(t))
	for _, id := range s.order[kind] {
		rows = append(rows, copyRow(t[id]))
	}
	return rows, nil
}

func (s *fakeStore) Store(kind Kind, row Row) error {
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	id := row[AttrID]
	if _, exists := t[id]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicate, kind, id)
	}
	s.writes++
	t[id] = copyRow(row)
	s.order[kind] = append(s.order[kind], id)
	return nil
}

func (s *fakeStore) Update(kind Kind, id string, row Row) error {
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	if _, exists := t[id]; !exists {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	s.writes++
	t[id] = copyRow(row)
	return nil
}

func (s *fakeStore) RemoveByID(kind Kind, id string) error {
	t, err := s.table(kind)
	if err != nil {
		return err
	}
	if _, exists := t[id]; !exists {
		return nil
	}
	s.writes++
	delete(t, id)
	for i, existing := range s.order[kind] {
		if existing == id {
			s.order[kind] = append(s.order[kind][:i], s.order[kind][i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) RetrieveByID(kind Kind, id string) (Row, error) {
	t, err := s.table(kind)
	if err != nil {
		return nil, err
	}
	row, exists := t[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
	}
	return copyRow(row), nil
}

func (s *fakeStore) IsType(kind Kind, id string) (bool, error) {
	t, err := s.table(kind)
	if err != nil {
		return false, err
	}
	_, exists := t[id]
	return exists, nil
}

func copyRow(row Row) Row {
	cp := make(Row, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp
}
