package metadata

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every mapping configuration error
var ErrConfiguration = errors.New("mapping configuration error")

// ErrorKind classifies configuration errors
type ErrorKind int

const (
	// KindDuplicateKey is returned when a record type declares more than one primary key
	KindDuplicateKey ErrorKind = iota + 1
	// KindArityMismatch is returned when a field's column and expression lists differ in length
	KindArityMismatch
	// KindAccessorMiss is returned when an accessor matches no mapped field
	KindAccessorMiss
	// KindUnknownEntity is returned when an accessor's entity has not been resolved
	KindUnknownEntity
	// KindMissingGenerator is returned when a sequence key is installed without a sequence generator
	KindMissingGenerator
	// KindMissingSequence is returned when a select-key is installed for a type without a key sequence
	KindMissingSequence
	// KindInheritanceCycle is returned when a record type's ancestor chain loops back on itself
	KindInheritanceCycle
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateKey:
		return "duplicate-key"
	case KindArityMismatch:
		return "arity-mismatch"
	case KindAccessorMiss:
		return "accessor-miss"
	case KindUnknownEntity:
		return "unknown-entity"
	case KindMissingGenerator:
		return "missing-generator"
	case KindMissingSequence:
		return "missing-sequence"
	case KindInheritanceCycle:
		return "inheritance-cycle"
	default:
		return "unknown"
	}
}

// Error is a fatal mapping configuration error
type Error struct {
	Kind     ErrorKind
	Entity   string
	Field    string
	Accessor string
	Message  string
}

// NewError creates a configuration error for an entity
func NewError(kind ErrorKind, entity, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrConfiguration
func (e *Error) Unwrap() error {
	return ErrConfiguration
}

// KindOf returns the kind of a configuration error, or 0 when err is not one
func KindOf(err error) ErrorKind {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind
	}
	return 0
}

// IsDuplicateKey returns true if the error is a duplicate primary key error
func IsDuplicateKey(err error) bool {
	return KindOf(err) == KindDuplicateKey
}

// IsArityMismatch returns true if the error is a column/expression arity error
func IsArityMismatch(err error) bool {
	return KindOf(err) == KindArityMismatch
}

// IsAccessorMiss returns true if the error is an accessor resolution miss
func IsAccessorMiss(err error) bool {
	return KindOf(err) == KindAccessorMiss
}
