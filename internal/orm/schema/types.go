// Package schema provides the record type descriptors the metadata resolver works from.
// A descriptor carries the type's name, its ancestor chain and the mapping directives declared on
// the type and its fields. Descriptors are plain values: they are built once, either by hand, from
// struct tags (FromStruct) or from a YAML file (LoadFile), and are never introspected at runtime.
package schema

import (
	"fmt"
	"strings"
)

// IDType is the primary-key generation strategy
type IDType int

const (
	// IDNone defers to the global default strategy
	IDNone IDType = iota
	// IDAuto relies on a database auto-increment column
	IDAuto
	// IDInput expects the caller to supply the key
	IDInput
	// IDSequence fetches the key from a database sequence before insert
	IDSequence
	// IDUUID assigns a random 32-character hex key before insert
	IDUUID
)

// String returns the string representation of the id type
func (t IDType) String() string {
	switch t {
	case IDNone:
		return "none"
	case IDAuto:
		return "auto"
	case IDInput:
		return "input"
	case IDSequence:
		return "sequence"
	case IDUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ParseIDType converts a string to an IDType
func ParseIDType(s string) (IDType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return IDNone, nil
	case "auto":
		return IDAuto, nil
	case "input":
		return IDInput, nil
	case "sequence":
		return IDSequence, nil
	case "uuid":
		return IDUUID, nil
	default:
		return 0, fmt.Errorf("unknown id type: %s", s)
	}
}

// ResultType is the Go type a key sequence yields
type ResultType int

const (
	ResultInt64 ResultType = iota
	ResultString
)

// String returns the string representation of the result type
func (r ResultType) String() string {
	switch r {
	case ResultInt64:
		return "int64"
	case ResultString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseResultType converts a string to a ResultType
func ParseResultType(s string) (ResultType, error) {
	switch strings.ToLower(s) {
	case "", "int64", "long":
		return ResultInt64, nil
	case "string":
		return ResultString, nil
	default:
		return 0, fmt.Errorf("unknown result type: %s", s)
	}
}

// TableName is the type-level table directive
type TableName struct {
	Value     string // explicit table name, empty to derive it
	ResultMap string // explicit result map id
}

// KeySequence names the database sequence that feeds the primary key
type KeySequence struct {
	Value      string
	ResultType ResultType
}

// TableID marks a field as the primary key
type TableID struct {
	Value string // explicit column name
	Type  IDType // IDNone falls back to the global strategy
}

// TableField is the field-level mapping directive.
// Value and El accept semicolon separated lists of equal length, mapping one field onto several
// columns (eg. Value "lng;lat").
type TableField struct {
	Value   string
	El      string
	Exclude bool // field is not persisted
}

// Field is a field of a record type
type Field struct {
	Name    string
	ID      *TableID
	Mapping *TableField
}

// Excluded reports whether the field is marked non-persistent.
func (f *Field) Excluded() bool {
	return f.Mapping != nil && f.Mapping.Exclude
}

// Entity describes a record type
type Entity struct {
	Package     string
	Name        string // simple type name, eg. UserAccount
	Table       *TableName
	KeySequence *KeySequence
	Fields      []*Field

	// Parent is the next type up the ancestor chain, nil at the root.
	Parent *Entity
	// Framework marks a base type owned by the framework; enumeration stops before it.
	Framework bool
}

// NewEntity creates an entity descriptor
func NewEntity(pkg, name string, fields ...*Field) *Entity {
	return &Entity{
		Package: pkg,
		Name:    name,
		Fields:  fields,
	}
}

// FullName returns the fully-qualified type name
func (e *Entity) FullName() string {
	if e.Package == "" {
		return e.Name
	}
	return e.Package + "." + e.Name
}

// Field returns the field declared directly on the entity with the given name
func (e *Entity) Field(name string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Ref builds a reference to one of the entity's fields through its accessor name
func (e *Entity) Ref(accessor string) FieldRef {
	return FieldRef{Entity: e.FullName(), Accessor: accessor}
}

// FieldRef is a symbolic accessor: the declaring entity plus the getter name (GetUserName, IsActive
// or plain UserName).
type FieldRef struct {
	Entity   string
	Accessor string
}

// String returns Entity#Accessor
func (r FieldRef) String() string {
	return r.Entity + "#" + r.Accessor
}
