package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrEntityNotFound is matched by Lookup errors for names that match no entity
var ErrEntityNotFound = errors.New("entity not found")

type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("entity %s not found", e.name)
}

func (e *notFoundError) Unwrap() error {
	return ErrEntityNotFound
}

// Registry holds the entity descriptors known to an application, keyed by full name
type Registry struct {
	entities  map[string]*Entity
	validator *Validator
	mu        sync.RWMutex
}

// NewRegistry creates a new descriptor registry
func NewRegistry() *Registry {
	return &Registry{
		entities:  make(map[string]*Entity),
		validator: NewValidator(),
	}
}

// Register validates and registers an entity descriptor
func (r *Registry) Register(e *Entity) error {
	if err := r.validator.Validate(e); err != nil {
		return fmt.Errorf("descriptor validation failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := e.FullName()
	if _, exists := r.entities[name]; exists {
		return fmt.Errorf("entity %s is already registered", name)
	}
	r.entities[name] = e

	return nil
}

// Get retrieves an entity by full name
func (r *Registry) Get(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entities[name]
	return e, exists
}

// Lookup finds an entity by full name, falling back to a unique simple name match
func (r *Registry) Lookup(name string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entities[name]; ok {
		return e, nil
	}

	var found *Entity
	for _, e := range r.entities {
		if e.Name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("entity name %s is ambiguous, use the full name", name)
		}
		found = e
	}
	if found == nil {
		return nil, &notFoundError{name: name}
	}
	return found, nil
}

// All returns the registered entities sorted by full name
func (r *Registry) All() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FullName() < result[j].FullName()
	})
	return result
}

// List returns the full names of all registered entities, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered entities
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}

// Clear removes all registered entities (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entities = make(map[string]*Entity)
}
