package metadata

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/tablemeta/internal/orm/schema"
	ustrings "github.com/conduit-lang/tablemeta/internal/util/strings"
)

var accessorPrefixes = []string{"get", "Get", "is", "Is"}

// ColumnResolver maps field accessors to column names.
// It only reads metadata the Resolver has already cached and keeps its own cache of answers.
type ColumnResolver struct {
	tables  *Resolver
	columns sync.Map // map[string]string, keyed by entity#accessor
}

// NewColumnResolver creates a column resolver backed by a metadata resolver
func NewColumnResolver(tables *Resolver) *ColumnResolver {
	return &ColumnResolver{tables: tables}
}

// ToColumn returns the column a field accessor maps to.
// The accessor's entity must already be resolved.
func (c *ColumnResolver) ToColumn(ref schema.FieldRef) (string, error) {
	key := ref.String()
	if column, ok := c.columns.Load(key); ok {
		return column.(string), nil
	}

	column, err := c.resolveColumn(ref)
	if err != nil {
		return "", err
	}
	actual, _ := c.columns.LoadOrStore(key, column)
	return actual.(string), nil
}

// Reset drops every cached answer. Only test harnesses should call it.
func (c *ColumnResolver) Reset() {
	c.columns.Range(func(k, _ any) bool {
		c.columns.Delete(k)
		return true
	})
}

func (c *ColumnResolver) resolveColumn(ref schema.FieldRef) (string, error) {
	info, ok := c.tables.Table(ref.Entity)
	if !ok {
		err := NewError(KindUnknownEntity, ref.Entity,
			"entity %s has no resolved table metadata, resolve it before looking up %s",
			ref.Entity, ref.Accessor)
		err.Accessor = ref.Accessor
		return "", err
	}

	property := PropertyName(ref.Accessor)
	if f, ok := info.Field(property); ok {
		return f.Column, nil
	}

	err := NewError(KindAccessorMiss, ref.Entity,
		"no column found for %s#%s, the field may be excluded from mapping or %s is not a plain getter",
		ref.Entity, ref.Accessor, ref.Accessor)
	err.Accessor = ref.Accessor
	err.Field = property
	return "", err
}

// PropertyName derives a field name from its accessor: GetUserName, getUserName and UserName all
// give userName, IsActive gives active. A prefix is only stripped when an upper-case rune follows.
func PropertyName(accessor string) string {
	name := accessor
	for _, prefix := range accessorPrefixes {
		rest, ok := strings.CutPrefix(accessor, prefix)
		if !ok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			name = rest
			break
		}
	}
	return ustrings.ToLowerCamel(name)
}
