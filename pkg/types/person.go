package types

// Person is someone who belongs to groups and pays or benefits from
// payments. Its relationship list holds group ids, mirrored by the groups'
// member lists.
type Person struct {
	*Entity
}

// NewPerson creates and persists a person. The name attribute is required.
func NewPerson(st Store, attrs map[string]any) (*Person, error) {
	e, err := New(st, KindPerson, attrs)
	if err != nil {
		return nil, err
	}
	return &Person{e}, nil
}

// LoadPerson reconstructs a stored person by id without re-persisting it.
func LoadPerson(st Store, id string) (*Person, error) {
	e, err := Load(st, KindPerson, id)
	if err != nil {
		return nil, err
	}
	return &Person{e}, nil
}

// Name returns the person's name.
func (p *Person) Name() string {
	return p.Text(AttrName)
}

// Groups returns the ids of the groups the person belongs to, in insertion
// order.
func (p *Person) Groups() []string {
	return p.Related()
}

// AddToGroup adds the person to the group. Both sides of the membership
// edge, the passed group object included, are updated before AddToGroup
// returns.
func (p *Person) AddToGroup(g *Group) error {
	return p.addRelated([]string{g.ID()}, true, map[string]*Entity{g.ID(): g.Entity})
}

// RemoveFromGroup removes the person from the group, updating both sides
// including the passed group object. Fails with ErrRelationshipNotFound if
// the person is not a member.
func (p *Person) RemoveFromGroup(g *Group) error {
	return p.removeRelated([]string{g.ID()}, true, map[string]*Entity{g.ID(): g.Entity})
}
