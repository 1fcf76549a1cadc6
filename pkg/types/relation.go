package types

import "fmt"

// AddRelated appends target ids to the entity's relationship list,
// validating that every id resolves to the declared target kind, skipping
// ids already present, and persisting the updated record.
//
// With propagate=true the reciprocal non-propagating add runs on each newly
// linked peer before AddRelated returns, so the symmetric edge is complete
// in exactly two writes per logical edge. Propagation requires the target
// kind to declare a mirror relationship back to this entity's kind; the
// person/group membership edge does, a payment's beneficiary edge does not.
func (e *Entity) AddRelated(ids []string, propagate bool) error {
	return e.addRelated(ids, propagate, nil)
}

// addRelated carries the optional peers map: caller-held target entities
// keyed by id. When the reciprocal add runs on such a peer its in-memory
// attributes are updated in place, so the object the caller passed in
// reflects the new edge without a reload. Ids absent from the map are
// loaded fresh.
func (e *Entity) addRelated(ids []string, propagate bool, peers map[string]*Entity) error {
	rel := e.schema.Relation
	if rel == nil {
		return fmt.Errorf("%w: %s", ErrNoRelation, e.kind)
	}
	if propagate {
		if err := mirrorRelation(rel.Target, e.kind); err != nil {
			return err
		}
	}
	if err := e.checkTargets(rel, ids); err != nil {
		return err
	}

	current, _ := e.attrs[rel.Attr].([]string)
	present := make(map[string]bool, len(current))
	for _, id := range current {
		present[id] = true
	}
	var added []string
	for _, id := range ids {
		if present[id] {
			continue
		}
		present[id] = true
		current = append(current, id)
		added = append(added, id)
	}
	if len(added) == 0 {
		return nil
	}

	e.attrs[rel.Attr] = current
	if err := e.store.Update(e.kind, e.ID(), e.Record()); err != nil {
		return err
	}

	if !propagate {
		return nil
	}
	for _, id := range added {
		peer := peers[id]
		if peer == nil {
			loaded, err := Load(e.store, rel.Target, id)
			if err != nil {
				return err
			}
			peer = loaded
		}
		if err := peer.AddRelated([]string{e.ID()}, false); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRelated removes target ids from the entity's relationship list and
// persists the updated record. Every id must currently be present;
// otherwise RemoveRelated fails with ErrRelationshipNotFound before any
// mutation. With propagate=true the reciprocal non-propagating remove runs
// on each unlinked peer.
func (e *Entity) RemoveRelated(ids []string, propagate bool) error {
	return e.removeRelated(ids, propagate, nil)
}

// removeRelated carries the optional peers map with the same contract as
// addRelated: caller-held target entities are mutated in place by the
// reciprocal remove.
func (e *Entity) removeRelated(ids []string, propagate bool, peers map[string]*Entity) error {
	rel := e.schema.Relation
	if rel == nil {
		return fmt.Errorf("%w: %s", ErrNoRelation, e.kind)
	}
	if propagate {
		if err := mirrorRelation(rel.Target, e.kind); err != nil {
			return err
		}
	}

	if len(ids) == 0 {
		return nil
	}

	current, _ := e.attrs[rel.Attr].([]string)
	present := make(map[string]bool, len(current))
	for _, id := range current {
		present[id] = true
	}
	removing := make(map[string]bool, len(ids))
	var removed []string
	for _, id := range ids {
		if !present[id] {
			return fmt.Errorf("%w: %s not related to %s", ErrRelationshipNotFound, id, e.ID())
		}
		if !removing[id] {
			removing[id] = true
			removed = append(removed, id)
		}
	}

	kept := current[:0:0]
	for _, id := range current {
		if !removing[id] {
			kept = append(kept, id)
		}
	}
	e.attrs[rel.Attr] = kept
	if err := e.store.Update(e.kind, e.ID(), e.Record()); err != nil {
		return err
	}

	if !propagate {
		return nil
	}
	for _, id := range removed {
		peer := peers[id]
		if peer == nil {
			loaded, err := Load(e.store, rel.Target, id)
			if err != nil {
				return err
			}
			peer = loaded
		}
		if err := peer.RemoveRelated([]string{e.ID()}, false); err != nil {
			return err
		}
	}
	return nil
}

// mirrorRelation checks that the target kind declares a relationship back
// to the initiating kind, which is what makes propagation well-defined.
func mirrorRelation(target, initiator Kind) error {
	sch, err := SchemaFor(target)
	if err != nil {
		return err
	}
	if sch.Relation == nil || sch.Relation.Target != initiator {
		return fmt.Errorf("%w: %s declares no relationship back to %s", ErrNoRelation, target, initiator)
	}
	return nil
}
