package types

import "errors"

// Entity validation errors.
var (
	ErrValidation     = errors.New("attribute value has unsupported type")
	ErrMissingField   = errors.New("required field not provided")
	ErrImmutableField = errors.New("field is immutable after creation")
	ErrUnknownKind    = errors.New("unknown entity kind")
)

// Relationship errors.
var (
	ErrTypeMismatch         = errors.New("related id is not of the expected kind")
	ErrRelationshipNotFound = errors.New("relationship not present")
	ErrNoRelation           = errors.New("kind declares no relationship attribute")
)

// Store errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record id already stored")
)
