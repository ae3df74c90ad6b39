package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := map[string]struct {
		entity   func() *Entity
		expected string
	}{
		"valid entity": {
			entity: func() *Entity {
				return NewEntity("app", "Post", &Field{Name: "id"}, &Field{Name: "title"})
			},
		},
		"nil entity": {
			entity:   func() *Entity { return nil },
			expected: "entity is nil",
		},
		"missing name": {
			entity:   func() *Entity { return NewEntity("app", " ") },
			expected: "app: entity name is required",
		},
		"unnamed field": {
			entity: func() *Entity {
				return NewEntity("app", "Post", &Field{Name: "id"}, &Field{})
			},
			expected: "app.Post: field 1 has no name",
		},
		"nil field": {
			entity: func() *Entity {
				return NewEntity("app", "Post", nil)
			},
			expected: "app.Post: field 0 is nil",
		},
		"duplicate field": {
			entity: func() *Entity {
				return NewEntity("app", "Post", &Field{Name: "title"}, &Field{Name: "title"})
			},
			expected: "app.Post.title: duplicate field name",
		},
		"excluded primary key": {
			entity: func() *Entity {
				return NewEntity("app", "Post", &Field{
					Name:    "id",
					ID:      &TableID{},
					Mapping: &TableField{Exclude: true},
				})
			},
			expected: "app.Post.id: primary key field cannot be excluded from mapping\n  hint: drop the exclude flag or the id directive",
		},
		"empty key sequence": {
			entity: func() *Entity {
				e := NewEntity("app", "Post", &Field{Name: "id"})
				e.KeySequence = &KeySequence{}
				return e
			},
			expected: "app.Post: key sequence requires a sequence name",
		},
		"invalid ancestor": {
			entity: func() *Entity {
				e := NewEntity("app", "Post", &Field{Name: "id"})
				e.Parent = NewEntity("app", "Base", &Field{Name: "a"}, &Field{Name: "a"})
				return e
			},
			expected: "app.Base.a: duplicate field name",
		},
		"ancestor loop": {
			entity: func() *Entity {
				a := NewEntity("app", "A")
				b := NewEntity("app", "B")
				a.Parent = b
				b.Parent = a
				return a
			},
			expected: "app.A: ancestor chain loops back to app.A",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(tt.entity())
			if tt.expected == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}
