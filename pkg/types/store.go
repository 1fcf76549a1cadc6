package types

// Row is the persisted representation of one entity: every attribute
// flattened to a string cell keyed by attribute name. Relationship lists
// are joined with ListSeparator; ids must never contain the separator.
type Row map[string]string

// ListSeparator joins relationship id lists into a single cell.
const ListSeparator = ";"

// Store provides uniform per-kind persistence. One flat table per kind,
// each row keyed by its "id" cell. Implementations must make every
// operation appear atomic to a synchronous caller.
//
// Implementations may not preserve empty-string cells across a round-trip;
// tabular backends read an empty cell back as an absent key. The entity
// layer treats an empty cell and an absent cell identically, so only code
// comparing raw Rows across backends can observe the difference.
type Store interface {
	// ListAll returns every row of the kind's table. Row order is the
	// insertion order. An empty table yields no rows.
	ListAll(kind Kind) ([]Row, error)

	// Store inserts a new row. Returns ErrDuplicate if a row with the
	// same id is already present.
	Store(kind Kind, row Row) error

	// Update replaces the row with the given id.
	// Returns ErrNotFound if no row exists with that id.
	Update(kind Kind, id string, row Row) error

	// RemoveByID deletes the row with the given id. Idempotent: removing
	// an absent id is a silent no-op. Callers needing certainty should
	// check existence first.
	RemoveByID(kind Kind, id string) error

	// RetrieveByID returns a copy of the row with the given id.
	// Returns ErrNotFound if no row exists with that id.
	RetrieveByID(kind Kind, id string) (Row, error)

	// IsType reports whether the kind's table holds a row with the id.
	IsType(kind Kind, id string) (bool, error)
}
