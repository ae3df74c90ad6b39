package schema

// Enumerate returns the persistent fields of an entity.
// Fields are ordered descendant-first: the entity's own fields in declaration order, then each
// ancestor's, up to but excluding the first framework type. An ancestor field shadowed by a
// descendant field of the same name is skipped. Excluded fields are dropped. A chain that loops
// back on itself ends at the first repeated entity; see CycleStart.
func Enumerate(e *Entity) []*Field {
	var fields []*Field
	seen := make(map[string]struct{})
	visited := make(map[*Entity]bool)

	for t := e; t != nil && !t.Framework && !visited[t]; t = t.Parent {
		visited[t] = true
		for _, f := range t.Fields {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			if f.Excluded() {
				continue
			}
			fields = append(fields, f)
		}
	}

	return fields
}

// CycleStart returns the first entity reached twice while walking e's ancestor chain, or nil
// when the chain ends
func CycleStart(e *Entity) *Entity {
	visited := make(map[*Entity]bool)
	for t := e; t != nil; t = t.Parent {
		if visited[t] {
			return t
		}
		visited[t] = true
	}
	return nil
}

// HasTableID reports whether any of the fields carries a primary-key directive
func HasTableID(fields []*Field) bool {
	for _, f := range fields {
		if f.ID != nil {
			return true
		}
	}
	return false
}
