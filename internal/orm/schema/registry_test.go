package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get entity", func(t *testing.T) {
		registry := NewRegistry()

		require.NoError(t, registry.Register(NewEntity("app", "Post", &Field{Name: "id"})))

		retrieved, exists := registry.Get("app.Post")
		require.True(t, exists)
		assert.Equal(t, "Post", retrieved.Name)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		registry := NewRegistry()

		require.NoError(t, registry.Register(NewEntity("app", "Post")))
		err := registry.Register(NewEntity("app", "Post"))
		assert.EqualError(t, err, "entity app.Post is already registered")
	})

	t.Run("invalid descriptor is rejected", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(NewEntity("app", "Post", &Field{Name: "a"}, &Field{Name: "a"}))
		assert.EqualError(t, err, "descriptor validation failed: app.Post.a: duplicate field name")
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("list and all are sorted", func(t *testing.T) {
		registry := NewRegistry()
		for _, name := range []string{"User", "Post", "Comment"} {
			require.NoError(t, registry.Register(NewEntity("app", name)))
		}

		assert.Equal(t, []string{"app.Comment", "app.Post", "app.User"}, registry.List())

		all := registry.All()
		require.Len(t, all, 3)
		assert.Equal(t, "Comment", all[0].Name)
		assert.Equal(t, "User", all[2].Name)
	})

	t.Run("lookup by simple name", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(NewEntity("app", "Post")))
		require.NoError(t, registry.Register(NewEntity("app", "User")))
		require.NoError(t, registry.Register(NewEntity("admin", "User")))

		e, err := registry.Lookup("Post")
		require.NoError(t, err)
		assert.Equal(t, "app.Post", e.FullName())

		e, err = registry.Lookup("admin.User")
		require.NoError(t, err)
		assert.Equal(t, "admin", e.Package)

		_, err = registry.Lookup("User")
		assert.EqualError(t, err, "entity name User is ambiguous, use the full name")

		_, err = registry.Lookup("Comment")
		assert.EqualError(t, err, "entity Comment not found")
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("count and clear", func(t *testing.T) {
		registry := NewRegistry()
		assert.Equal(t, 0, registry.Count())

		require.NoError(t, registry.Register(NewEntity("app", "Post")))
		assert.Equal(t, 1, registry.Count())

		registry.Clear()
		assert.Equal(t, 0, registry.Count())
		_, exists := registry.Get("app.Post")
		assert.False(t, exists)
	})
}
