package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity is one typed record: a kind tag, an immutable id, and an attribute
// map validated against the kind's schema. The store handle is injected at
// construction and carried for subsequent operations; there is no global
// store instance.
type Entity struct {
	kind   Kind
	schema Schema
	attrs  map[string]any
	store  Store
}

// newID generates a UUID v7 string.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New creates an entity of the given kind, validates its attributes against
// the kind's schema, auto-fills declared defaults, assigns a fresh id when
// none is supplied, and persists the record.
func New(st Store, kind Kind, attrs map[string]any) (*Entity, error) {
	return newEntity(st, kind, attrs, true)
}

// Load reconstructs the entity with the given id from the store. The record
// is not re-persisted and auto-fill does not run.
func Load(st Store, kind Kind, id string) (*Entity, error) {
	row, err := st.RetrieveByID(kind, id)
	if err != nil {
		return nil, err
	}
	return FromRow(st, kind, row)
}

// FromRow reconstructs an entity from its stored row representation without
// persisting it again.
func FromRow(st Store, kind Kind, row Row) (*Entity, error) {
	attrs, err := decodeRow(kind, row)
	if err != nil {
		return nil, err
	}
	return newEntity(st, kind, attrs, false)
}

// newEntity is the single construction path. persist=false is the
// reconstruction mode: validation still runs, auto-fill and the store write
// are skipped.
func newEntity(st Store, kind Kind, attrs map[string]any, persist bool) (*Entity, error) {
	sch, err := SchemaFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, kind)
	}

	e := &Entity{kind: kind, schema: sch, store: st, attrs: make(map[string]any, len(attrs)+1)}
	for name, value := range attrs {
		v, err := normalizeValue(sch, name, value)
		if err != nil {
			return nil, err
		}
		e.attrs[name] = v
	}

	for _, req := range sch.Required {
		if _, ok := e.attrs[req]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, req)
		}
	}

	if persist {
		if err := e.checkRelatedSupplied(); err != nil {
			return nil, err
		}
		if err := e.autoFill(); err != nil {
			return nil, err
		}
	}

	if _, ok := e.attrs[AttrID]; !ok {
		e.attrs[AttrID] = newID()
	}

	if persist {
		if err := st.Store(kind, e.Record()); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// normalizeValue checks one attribute value against the allowed scalar set
// and the schema's declared field kind. Integers supplied for float fields
// are widened; id lists are copied and deduplicated preserving insertion
// order, so a relationship list never holds the same id twice no matter
// which path wrote it. Undeclared attributes are permitted as text only, so
// every stored value round-trips losslessly.
func normalizeValue(sch Schema, name string, value any) (any, error) {
	kind, declared := sch.Fields[name]
	switch v := value.(type) {
	case string:
		if declared && kind != FieldText {
			return nil, fmt.Errorf("%w: %s given text", ErrValidation, name)
		}
		return v, nil
	case int:
		switch {
		case declared && kind == FieldFloat:
			return float64(v), nil
		case declared && kind != FieldInt:
			return nil, fmt.Errorf("%w: %s given integer", ErrValidation, name)
		case !declared:
			return nil, fmt.Errorf("%w: undeclared attribute %s must be text", ErrValidation, name)
		}
		return v, nil
	case float64:
		if !declared || kind != FieldFloat {
			return nil, fmt.Errorf("%w: %s given float", ErrValidation, name)
		}
		return v, nil
	case []string:
		if !declared || kind != FieldIDList {
			return nil, fmt.Errorf("%w: %s given id list", ErrValidation, name)
		}
		cp := make([]string, 0, len(v))
		seen := make(map[string]bool, len(v))
		for _, id := range v {
			if seen[id] {
				continue
			}
			seen[id] = true
			cp = append(cp, id)
		}
		return cp, nil
	default:
		return nil, fmt.Errorf("%w: %s has type %T", ErrValidation, name, value)
	}
}

// checkRelatedSupplied validates a caller-supplied relationship list at
// creation time: every id must resolve to the declared target kind.
func (e *Entity) checkRelatedSupplied() error {
	rel := e.schema.Relation
	if rel == nil {
		return nil
	}
	ids, ok := e.attrs[rel.Attr].([]string)
	if !ok {
		return nil
	}
	return e.checkTargets(rel, ids)
}

// checkTargets verifies that every id is a stored record of the relation's
// target kind.
func (e *Entity) checkTargets(rel *Relation, ids []string) error {
	for _, id := range ids {
		ok, err := e.store.IsType(rel.Target, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is not a stored %s", ErrTypeMismatch, id, rel.Target)
		}
	}
	return nil
}

// autoFill computes kind-specific defaults for every declared auto-fill
// attribute the caller omitted. It runs once at creation, never overwrites
// a supplied value, and never re-runs on update or reconstruction.
func (e *Entity) autoFill() error {
	for _, attr := range e.schema.AutoFill {
		if _, ok := e.attrs[attr]; ok {
			continue
		}
		v, err := defaultFor(e.store, e.kind, attr, e.attrs)
		if err != nil {
			return err
		}
		e.attrs[attr] = v
	}
	return nil
}

// ID returns the entity identifier.
func (e *Entity) ID() string {
	id, _ := e.attrs[AttrID].(string)
	return id
}

// Kind returns the entity kind tag.
func (e *Entity) Kind() Kind {
	return e.kind
}

// Attr returns one attribute value and whether it is set.
func (e *Entity) Attr(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// Text returns a text attribute, or "" when absent.
func (e *Entity) Text(name string) string {
	v, _ := e.attrs[name].(string)
	return v
}

// Float returns a floating-point attribute, or 0 when absent.
func (e *Entity) Float(name string) float64 {
	v, _ := e.attrs[name].(float64)
	return v
}

// Related returns a copy of the relationship id list, or an empty slice
// when the kind declares no relationship or none is set.
func (e *Entity) Related() []string {
	rel := e.schema.Relation
	if rel == nil {
		return nil
	}
	ids, _ := e.attrs[rel.Attr].([]string)
	cp := make([]string, len(ids))
	copy(cp, ids)
	return cp
}

// UpdateAttributes validates the supplied subset, merges it into the
// attribute map, and writes the full updated record to the store.
// Validation runs before any mutation; immutable fields are rejected, and
// so is the relationship attribute, which only AddRelated and RemoveRelated
// may change so target validation and propagation cannot be bypassed.
func (e *Entity) UpdateAttributes(attrs map[string]any) error {
	staged := make(map[string]any, len(attrs))
	for name, value := range attrs {
		for _, im := range e.schema.Immutable {
			if name == im {
				return fmt.Errorf("%w: %s", ErrImmutableField, name)
			}
		}
		if rel := e.schema.Relation; rel != nil && name == rel.Attr {
			return fmt.Errorf("%w: %s changes through AddRelated and RemoveRelated", ErrValidation, name)
		}
		v, err := normalizeValue(e.schema, name, value)
		if err != nil {
			return err
		}
		staged[name] = v
	}
	for name, v := range staged {
		e.attrs[name] = v
	}
	return e.store.Update(e.kind, e.ID(), e.Record())
}
