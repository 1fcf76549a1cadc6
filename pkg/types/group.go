package types

// Group is a set of persons sharing expenses. Its relationship list holds
// member person ids, mirrored by each person's group list.
type Group struct {
	*Entity
}

// NewGroup creates and persists a group. The name attribute is required.
func NewGroup(st Store, attrs map[string]any) (*Group, error) {
	e, err := New(st, KindGroup, attrs)
	if err != nil {
		return nil, err
	}
	return &Group{e}, nil
}

// LoadGroup reconstructs a stored group by id without re-persisting it.
func LoadGroup(st Store, id string) (*Group, error) {
	e, err := Load(st, KindGroup, id)
	if err != nil {
		return nil, err
	}
	return &Group{e}, nil
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.Text(AttrName)
}

// Members returns the ids of the group's members, in insertion order.
func (g *Group) Members() []string {
	return g.Related()
}

// AddMember adds the person to the group, updating both sides including
// the passed person object. Calling AddMember or the person's AddToGroup
// produces the identical end state.
func (g *Group) AddMember(p *Person) error {
	return g.addRelated([]string{p.ID()}, true, map[string]*Entity{p.ID(): p.Entity})
}

// RemoveMember removes the person from the group, updating both sides
// including the passed person object. Fails with ErrRelationshipNotFound if
// the person is not a member.
func (g *Group) RemoveMember(p *Person) error {
	return g.removeRelated([]string{p.ID()}, true, map[string]*Entity{p.ID(): p.Entity})
}

// Payments reconstructs every stored payment made in this group. The
// payments are not re-persisted.
func (g *Group) Payments() ([]*Payment, error) {
	rows, err := g.store.ListAll(KindPayment)
	if err != nil {
		return nil, err
	}
	var payments []*Payment
	for _, row := range rows {
		if row[AttrGroupID] != g.ID() {
			continue
		}
		e, err := FromRow(g.store, KindPayment, row)
		if err != nil {
			return nil, err
		}
		payments = append(payments, &Payment{e})
	}
	return payments, nil
}
