package types

// Kind tags one entity table. The set is closed; backends reject anything
// outside it with ErrUnknownKind.
type Kind string

// Entity kinds.
const (
	KindAbstract Kind = "abstract"
	KindPerson   Kind = "person"
	KindGroup    Kind = "group"
	KindPayment  Kind = "payment"
)

// Kinds lists every entity kind for table enumeration.
var Kinds = []Kind{KindAbstract, KindPerson, KindGroup, KindPayment}

// FieldKind is the scalar kind of one declared attribute.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldFloat
	FieldIDList // relationship attribute: ordered, deduplicated id list
)

// Relation declares a kind's relationship attribute and the kind every
// related id must resolve to.
type Relation struct {
	Attr   string
	Target Kind
}

// Schema is the per-kind configuration: which fields exist and their scalar
// kinds, which must be present at creation, which may never change after
// creation, which are auto-filled when omitted, and the relationship
// declaration. Plain data, looked up by kind.
type Schema struct {
	Required  []string
	Fields    map[string]FieldKind
	Immutable []string
	AutoFill  []string
	Relation  *Relation
}

// Attribute names shared across kinds.
const (
	AttrID   = "id"
	AttrName = "name"
)

// Payment attribute names.
const (
	AttrPayerID  = "payer_id"
	AttrGroupID  = "group_id"
	AttrAmount   = "amount"
	AttrCurrency = "currency"
	AttrPurpose  = "purpose"
	AttrNote     = "note"
	AttrLocation = "location"
	AttrPaidFor  = "paid_for"
)

// Relationship attribute names for the person/group membership edge.
const (
	AttrGroups  = "groups"
	AttrMembers = "members"
)

// Placeholder defaults for Payment's descriptive fields.
const (
	DefaultCurrency = "EUR"
	DefaultPurpose  = "unknown"
	DefaultNote     = "unknown"
	DefaultLocation = "unknown"
)

// schemas holds the configuration for every kind.
var schemas = map[Kind]Schema{
	KindAbstract: {
		Fields:    map[string]FieldKind{AttrID: FieldText},
		Immutable: []string{AttrID},
	},
	KindPerson: {
		Required: []string{AttrName},
		Fields: map[string]FieldKind{
			AttrID:     FieldText,
			AttrName:   FieldText,
			AttrGroups: FieldIDList,
		},
		Immutable: []string{AttrID},
		Relation:  &Relation{Attr: AttrGroups, Target: KindGroup},
	},
	KindGroup: {
		Required: []string{AttrName},
		Fields: map[string]FieldKind{
			AttrID:      FieldText,
			AttrName:    FieldText,
			AttrMembers: FieldIDList,
		},
		Immutable: []string{AttrID},
		Relation:  &Relation{Attr: AttrMembers, Target: KindPerson},
	},
	KindPayment: {
		Required: []string{AttrPayerID, AttrGroupID, AttrAmount},
		Fields: map[string]FieldKind{
			AttrID:       FieldText,
			AttrPayerID:  FieldText,
			AttrGroupID:  FieldText,
			AttrAmount:   FieldFloat,
			AttrCurrency: FieldText,
			AttrPurpose:  FieldText,
			AttrNote:     FieldText,
			AttrLocation: FieldText,
			AttrPaidFor:  FieldIDList,
		},
		Immutable: []string{AttrID, AttrPayerID, AttrGroupID, AttrAmount},
		AutoFill:  []string{AttrPaidFor, AttrCurrency, AttrPurpose, AttrNote, AttrLocation},
		Relation:  &Relation{Attr: AttrPaidFor, Target: KindPerson},
	},
}

// SchemaFor returns the schema for a kind.
// Returns ErrUnknownKind for a kind outside the closed set.
func SchemaFor(kind Kind) (Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		return Schema{}, ErrUnknownKind
	}
	return s, nil
}
