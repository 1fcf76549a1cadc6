package ledger

import (
	"github.com/mesh-intelligence/tally/pkg/types"
)

// ToMatrix projects one payment into a matrix over the owning group's
// current member list. Each beneficiary's cell on the payer's row is set to
// an even split of the amount; no rounding is applied.
// Returns ErrNotMember if the payer or a beneficiary is not currently a
// group member.
func ToMatrix(st types.Store, p *types.Payment) (*Matrix, error) {
	g, err := types.LoadGroup(st, p.GroupID())
	if err != nil {
		return nil, err
	}
	m := NewMatrix(g.Members())

	beneficiaries := p.Beneficiaries()
	if len(beneficiaries) == 0 {
		return m, nil
	}
	share := p.Amount() / float64(len(beneficiaries))
	for _, beneficiary := range beneficiaries {
		if err := m.set(p.PayerID(), beneficiary, share); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SummarizePayments sums ToMatrix over every payment stored for the group,
// producing one net matrix. A group with no payments yields an all-zero
// matrix sized to its current membership.
func SummarizePayments(st types.Store, g *types.Group) (*Matrix, error) {
	total := NewMatrix(g.Members())
	payments, err := g.Payments()
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		m, err := ToMatrix(st, p)
		if err != nil {
			return nil, err
		}
		if err := total.Add(m); err != nil {
			return nil, err
		}
	}
	return total, nil
}
