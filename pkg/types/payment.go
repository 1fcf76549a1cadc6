package types

import "fmt"

// Payment is a split expense: one payer advanced an amount inside one
// group, on behalf of a list of beneficiary persons. Payer, group, and
// amount are fixed at creation; the descriptive fields and the beneficiary
// list are auto-filled when omitted.
type Payment struct {
	*Entity
}

// NewPayment creates and persists a payment. payer_id, group_id, and
// amount are required and immutable afterwards; the payer must be a stored
// person and the group a stored group. When omitted, the beneficiary list
// defaults to a snapshot of the group's current members and the descriptive
// fields default to fixed placeholders.
func NewPayment(st Store, attrs map[string]any) (*Payment, error) {
	if err := checkPaymentRefs(st, attrs); err != nil {
		return nil, err
	}
	e, err := New(st, KindPayment, attrs)
	if err != nil {
		return nil, err
	}
	return &Payment{e}, nil
}

// LoadPayment reconstructs a stored payment by id without re-persisting it.
func LoadPayment(st Store, id string) (*Payment, error) {
	e, err := Load(st, KindPayment, id)
	if err != nil {
		return nil, err
	}
	return &Payment{e}, nil
}

// checkPaymentRefs verifies the payer and group references before the
// generic construction path runs. Missing fields are left to the required
// check so the error taxonomy stays consistent.
func checkPaymentRefs(st Store, attrs map[string]any) error {
	if payer, ok := attrs[AttrPayerID].(string); ok {
		isPerson, err := st.IsType(KindPerson, payer)
		if err != nil {
			return err
		}
		if !isPerson {
			return fmt.Errorf("%w: payer %s is not a stored person", ErrTypeMismatch, payer)
		}
	}
	if group, ok := attrs[AttrGroupID].(string); ok {
		isGroup, err := st.IsType(KindGroup, group)
		if err != nil {
			return err
		}
		if !isGroup {
			return fmt.Errorf("%w: group %s is not a stored group", ErrTypeMismatch, group)
		}
	}
	return nil
}

// defaultFor computes the auto-fill default for one omitted attribute.
// The beneficiary list snapshots the referenced group's current members;
// the descriptive fields take fixed placeholders.
func defaultFor(st Store, kind Kind, attr string, attrs map[string]any) (any, error) {
	if kind != KindPayment {
		return nil, fmt.Errorf("no auto-fill default for %s.%s", kind, attr)
	}
	switch attr {
	case AttrPaidFor:
		groupID, _ := attrs[AttrGroupID].(string)
		g, err := LoadGroup(st, groupID)
		if err != nil {
			return nil, err
		}
		return g.Members(), nil
	case AttrCurrency:
		return DefaultCurrency, nil
	case AttrPurpose:
		return DefaultPurpose, nil
	case AttrNote:
		return DefaultNote, nil
	case AttrLocation:
		return DefaultLocation, nil
	default:
		return nil, fmt.Errorf("no auto-fill default for %s.%s", kind, attr)
	}
}

// PayerID returns the id of the person who advanced the money.
func (p *Payment) PayerID() string {
	return p.Text(AttrPayerID)
}

// GroupID returns the id of the group the payment belongs to.
func (p *Payment) GroupID() string {
	return p.Text(AttrGroupID)
}

// Amount returns the paid amount.
func (p *Payment) Amount() float64 {
	return p.Float(AttrAmount)
}

// Currency returns the payment currency.
func (p *Payment) Currency() string {
	return p.Text(AttrCurrency)
}

// Purpose returns what the payment was for.
func (p *Payment) Purpose() string {
	return p.Text(AttrPurpose)
}

// Note returns the free-text note.
func (p *Payment) Note() string {
	return p.Text(AttrNote)
}

// Location returns where the payment happened.
func (p *Payment) Location() string {
	return p.Text(AttrLocation)
}

// Beneficiaries returns the ids of the persons the payment was made for,
// in insertion order.
func (p *Payment) Beneficiaries() []string {
	return p.Related()
}

// AddBeneficiaries appends beneficiary person ids. The edge is
// one-directional; nothing is written to the persons.
func (p *Payment) AddBeneficiaries(ids ...string) error {
	return p.AddRelated(ids, false)
}

// RemoveBeneficiaries removes beneficiary person ids. Fails with
// ErrRelationshipNotFound if any id is not currently a beneficiary.
func (p *Payment) RemoveBeneficiaries(ids ...string) error {
	return p.RemoveRelated(ids, false)
}

// Delete removes the payment record from the store. Payments are the only
// entities the core deletes.
func (p *Payment) Delete() error {
	return p.store.RemoveByID(KindPayment, p.ID())
}
