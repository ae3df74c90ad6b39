package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a descriptor validation error with context
type ValidationError struct {
	Entity  string
	Field   string
	Message string
	Hint    string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Entity != "" {
		b.WriteString(e.Entity)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Validator checks entity descriptors for structural mistakes.
// Mapping rules (key uniqueness, column arity) are enforced by the resolver, not here.
type Validator struct{}

// NewValidator creates a new descriptor validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates an entity and its ancestor chain
func (v *Validator) Validate(e *Entity) error {
	if e == nil {
		return &ValidationError{Message: "entity is nil"}
	}

	if loop := CycleStart(e); loop != nil {
		return &ValidationError{
			Entity:  e.FullName(),
			Message: fmt.Sprintf("ancestor chain loops back to %s", loop.FullName()),
		}
	}

	for t := e; t != nil; t = t.Parent {
		if err := v.validateEntity(t); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateEntity(e *Entity) error {
	if strings.TrimSpace(e.Name) == "" {
		return &ValidationError{
			Entity:  e.Package,
			Message: "entity name is required",
		}
	}

	names := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		if f == nil {
			return &ValidationError{
				Entity:  e.FullName(),
				Message: fmt.Sprintf("field %d is nil", i),
			}
		}
		if strings.TrimSpace(f.Name) == "" {
			return &ValidationError{
				Entity:  e.FullName(),
				Message: fmt.Sprintf("field %d has no name", i),
			}
		}
		if names[f.Name] {
			return &ValidationError{
				Entity:  e.FullName(),
				Field:   f.Name,
				Message: "duplicate field name",
			}
		}
		names[f.Name] = true

		if f.ID != nil && f.Excluded() {
			return &ValidationError{
				Entity:  e.FullName(),
				Field:   f.Name,
				Message: "primary key field cannot be excluded from mapping",
				Hint:    "drop the exclude flag or the id directive",
			}
		}
	}

	if e.KeySequence != nil && strings.TrimSpace(e.KeySequence.Value) == "" {
		return &ValidationError{
			Entity:  e.FullName(),
			Message: "key sequence requires a sequence name",
		}
	}

	return nil
}
