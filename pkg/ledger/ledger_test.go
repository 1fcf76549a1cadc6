package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/memory"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// newTrip builds three persons and a group holding all of them.
func newTrip(t *testing.T) (types.Store, *types.Group, []*types.Person) {
	t.Helper()
	st := memory.New()

	var persons []*types.Person
	for _, name := range []string{"ada", "grace", "mary"} {
		p, err := types.NewPerson(st, map[string]any{types.AttrName: name})
		require.NoError(t, err)
		persons = append(persons, p)
	}
	g, err := types.NewGroup(st, map[string]any{types.AttrName: "trip"})
	require.NoError(t, err)
	for _, p := range persons {
		require.NoError(t, g.AddMember(p))
	}
	return st, g, persons
}

func pay(t *testing.T, st types.Store, g *types.Group, payer *types.Person, amount float64) *types.Payment {
	t.Helper()
	p, err := types.NewPayment(st, map[string]any{
		types.AttrPayerID: payer.ID(),
		types.AttrGroupID: g.ID(),
		types.AttrAmount:  amount,
	})
	require.NoError(t, err)
	return p
}

func cell(t *testing.T, m *Matrix, payer, beneficiary string) float64 {
	t.Helper()
	v, err := m.Cell(payer, beneficiary)
	require.NoError(t, err)
	return v
}

func TestToMatrixEvenSplit(t *testing.T) {
	st, g, persons := newTrip(t)
	p1, p2, p3 := persons[0], persons[1], persons[2]
	payment := pay(t, st, g, p1, 30)

	m, err := ToMatrix(st, payment)
	require.NoError(t, err)

	assert.Equal(t, g.Members(), m.Members())
	// The payer's row carries the even split; every other cell is zero.
	assert.Equal(t, 10.0, cell(t, m, p1.ID(), p1.ID()))
	assert.Equal(t, 10.0, cell(t, m, p1.ID(), p2.ID()))
	assert.Equal(t, 10.0, cell(t, m, p1.ID(), p3.ID()))
	for _, payer := range []string{p2.ID(), p3.ID()} {
		for _, beneficiary := range m.Members() {
			assert.Zero(t, cell(t, m, payer, beneficiary))
		}
	}
}

func TestToMatrixPartialBeneficiaries(t *testing.T) {
	st, g, persons := newTrip(t)
	p1, p2, p3 := persons[0], persons[1], persons[2]

	payment, err := types.NewPayment(st, map[string]any{
		types.AttrPayerID: p1.ID(),
		types.AttrGroupID: g.ID(),
		types.AttrAmount:  10.0,
		types.AttrPaidFor: []string{p2.ID(), p3.ID()},
	})
	require.NoError(t, err)

	m, err := ToMatrix(st, payment)
	require.NoError(t, err)
	assert.Zero(t, cell(t, m, p1.ID(), p1.ID()))
	assert.Equal(t, 5.0, cell(t, m, p1.ID(), p2.ID()))
	assert.Equal(t, 5.0, cell(t, m, p1.ID(), p3.ID()))
}

func TestToMatrixRepeatedBeneficiaryInput(t *testing.T) {
	st, g, persons := newTrip(t)
	p1, p2 := persons[0], persons[1]

	payment, err := types.NewPayment(st, map[string]any{
		types.AttrPayerID: p1.ID(),
		types.AttrGroupID: g.ID(),
		types.AttrAmount:  30.0,
		types.AttrPaidFor: []string{p2.ID(), p2.ID()},
	})
	require.NoError(t, err)

	// A repeated id is one beneficiary, so the full amount lands in one
	// cell instead of being split against itself.
	m, err := ToMatrix(st, payment)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cell(t, m, p1.ID(), p2.ID()))
	assert.Zero(t, cell(t, m, p1.ID(), p1.ID()))
}

func TestSummarizePaymentsSumsElementwise(t *testing.T) {
	st, g, persons := newTrip(t)
	p1, p2, p3 := persons[0], persons[1], persons[2]
	payment1 := pay(t, st, g, p1, 30)
	payment2 := pay(t, st, g, p2, 15)

	total, err := SummarizePayments(st, g)
	require.NoError(t, err)

	m1, err := ToMatrix(st, payment1)
	require.NoError(t, err)
	m2, err := ToMatrix(st, payment2)
	require.NoError(t, err)
	require.NoError(t, m1.Add(m2))

	for _, payer := range total.Members() {
		for _, beneficiary := range total.Members() {
			assert.Equal(t,
				cell(t, m1, payer, beneficiary),
				cell(t, total, payer, beneficiary),
				"summary must equal the elementwise sum")
		}
	}
	assert.Equal(t, 10.0, cell(t, total, p1.ID(), p3.ID()))
	assert.Equal(t, 5.0, cell(t, total, p2.ID(), p3.ID()))
}

func TestSummarizePaymentsEmptyGroup(t *testing.T) {
	st, g, _ := newTrip(t)

	total, err := SummarizePayments(st, g)
	require.NoError(t, err)

	require.Len(t, total.Members(), 3)
	for _, payer := range total.Members() {
		for _, beneficiary := range total.Members() {
			assert.Zero(t, cell(t, total, payer, beneficiary))
		}
	}
}

func TestToMatrixBeneficiaryLeftGroup(t *testing.T) {
	st, g, persons := newTrip(t)
	p1, p3 := persons[0], persons[2]
	payment := pay(t, st, g, p1, 30)

	reloaded, err := types.LoadGroup(st, g.ID())
	require.NoError(t, err)
	require.NoError(t, reloaded.RemoveMember(p3))

	// The snapshot still names the departed member, who is no longer on
	// the member axis.
	_, err = ToMatrix(st, payment)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestMatrixAddAxisMismatch(t *testing.T) {
	a := NewMatrix([]string{"p1", "p2"})
	b := NewMatrix([]string{"p2", "p1"})
	assert.ErrorIs(t, a.Add(b), ErrAxisMismatch)

	c := NewMatrix([]string{"p1"})
	assert.ErrorIs(t, a.Add(c), ErrAxisMismatch)
}

func TestMatrixCellUnknownMember(t *testing.T) {
	m := NewMatrix([]string{"p1"})
	_, err := m.Cell("p1", "nope")
	assert.ErrorIs(t, err, ErrNotMember)
	_, err = m.Cell("nope", "p1")
	assert.ErrorIs(t, err, ErrNotMember)
}
