// Package ledger projects payments into square per-member matrices.
// Nothing in this package persists anything.
package ledger

import (
	"errors"
	"fmt"
)

// Matrix errors.
var (
	ErrNotMember    = errors.New("id is not on the member axis")
	ErrAxisMismatch = errors.New("matrices have different member axes")
)

// Matrix is a square ledger matrix indexed by a group's member ids on both
// axes. Rows index the payer who advanced the money, columns the
// beneficiary owing their share: Cell(payer, beneficiary) is what the
// beneficiary owes the payer.
type Matrix struct {
	members []string
	index   map[string]int
	cells   [][]float64
}

// NewMatrix allocates an all-zero square matrix over the given member ids.
func NewMatrix(members []string) *Matrix {
	m := &Matrix{
		members: append([]string(nil), members...),
		index:   make(map[string]int, len(members)),
		cells:   make([][]float64, len(members)),
	}
	for i, id := range m.members {
		m.index[id] = i
		m.cells[i] = make([]float64, len(members))
	}
	return m
}

// Members returns the member ids forming both axes, in axis order.
func (m *Matrix) Members() []string {
	return append([]string(nil), m.members...)
}

// Cell returns what the beneficiary owes the payer.
// Returns ErrNotMember if either id is not on the axis.
func (m *Matrix) Cell(payer, beneficiary string) (float64, error) {
	i, ok := m.index[payer]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotMember, payer)
	}
	j, ok := m.index[beneficiary]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotMember, beneficiary)
	}
	return m.cells[i][j], nil
}

// set overwrites one cell. Within a single payment a payer is owed a given
// share by a beneficiary at most once, so overwriting is correct.
func (m *Matrix) set(payer, beneficiary string, amount float64) error {
	i, ok := m.index[payer]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMember, payer)
	}
	j, ok := m.index[beneficiary]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMember, beneficiary)
	}
	m.cells[i][j] = amount
	return nil
}

// Add sums the other matrix into this one elementwise.
// Returns ErrAxisMismatch unless both matrices share the same member axis.
func (m *Matrix) Add(o *Matrix) error {
	if len(m.members) != len(o.members) {
		return ErrAxisMismatch
	}
	for i, id := range m.members {
		if o.members[i] != id {
			return ErrAxisMismatch
		}
	}
	for i := range m.cells {
		for j := range m.cells[i] {
			m.cells[i][j] += o.cells[i][j]
		}
	}
	return nil
}
