// Package types defines the entity kinds, per-kind schemas, the Store
// interface, and standard error types for the tally shared-expense store.
//
// Entities are typed records: an immutable id, a kind tag, and an attribute
// map restricted to text, integer, and floating-point scalars plus one
// optional relationship list of related entity ids. Person and Group form a
// symmetric many-to-many membership; Payment records a split expense inside
// one group. All persistence goes through the Store interface.
package types
