package schema

import (
	"fmt"
	"strings"
)

// Hierarchy is the inheritance graph of a set of entities, keyed by full name
type Hierarchy struct {
	order []string
	edges map[string]string // entity -> parent
}

// NewHierarchy builds the inheritance graph of the given entities
func NewHierarchy(entities []*Entity) *Hierarchy {
	h := &Hierarchy{edges: make(map[string]string, len(entities))}
	for _, e := range entities {
		name := e.FullName()
		h.order = append(h.order, name)
		if e.Parent != nil {
			h.edges[name] = e.Parent.FullName()
		}
	}
	return h
}

// DetectCycles returns every inheritance cycle, each starting at the first member reached
// in declaration order
func (h *Hierarchy) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)

	for _, start := range h.order {
		if visited[start] {
			continue
		}

		onPath := make(map[string]int)
		var path []string
		node := start
		for {
			if i, ok := onPath[node]; ok {
				cycle := make([]string, len(path)-i)
				copy(cycle, path[i:])
				cycles = append(cycles, cycle)
				break
			}
			if visited[node] {
				break
			}
			visited[node] = true
			onPath[node] = len(path)
			path = append(path, node)

			parent, ok := h.edges[node]
			if !ok {
				break
			}
			node = parent
		}
	}

	return cycles
}

// Subtypes returns the direct subtypes of an entity in declaration order
func (h *Hierarchy) Subtypes(name string) []string {
	var subtypes []string
	for _, node := range h.order {
		if h.edges[node] == name {
			subtypes = append(subtypes, node)
		}
	}
	return subtypes
}

// Validate reports inheritance cycles as an error
func (h *Hierarchy) Validate() error {
	if cycles := h.DetectCycles(); len(cycles) > 0 {
		return fmt.Errorf("inheritance cycle detected:\n%s", formatCycles(cycles))
	}
	return nil
}

// formatCycles formats cycle information for error messages
func formatCycles(cycles [][]string) string {
	var b strings.Builder
	for i, cycle := range cycles {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  Cycle %d: %s -> %s",
			i+1,
			strings.Join(cycle, " -> "),
			cycle[0]) // Complete the cycle
	}
	return b.String()
}
