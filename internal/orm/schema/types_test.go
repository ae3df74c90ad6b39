package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDType(t *testing.T) {
	for _, idType := range []IDType{IDNone, IDAuto, IDInput, IDSequence, IDUUID} {
		parsed, err := ParseIDType(idType.String())
		require.NoError(t, err)
		assert.Equal(t, idType, parsed)
	}

	parsed, err := ParseIDType("")
	require.NoError(t, err)
	assert.Equal(t, IDNone, parsed)

	parsed, err = ParseIDType("AUTO")
	require.NoError(t, err)
	assert.Equal(t, IDAuto, parsed)

	_, err = ParseIDType("snowflake")
	assert.EqualError(t, err, "unknown id type: snowflake")
	assert.Equal(t, "unknown", IDType(99).String())
}

func TestResultType(t *testing.T) {
	rt, err := ParseResultType("long")
	require.NoError(t, err)
	assert.Equal(t, ResultInt64, rt)

	rt, err = ParseResultType("string")
	require.NoError(t, err)
	assert.Equal(t, ResultString, rt)

	_, err = ParseResultType("decimal")
	assert.Error(t, err)
}

func TestEntity(t *testing.T) {
	e := NewEntity("app", "UserAccount",
		&Field{Name: "id"},
		&Field{Name: "userName"},
	)

	assert.Equal(t, "app.UserAccount", e.FullName())
	assert.Equal(t, "UserAccount", NewEntity("", "UserAccount").FullName())

	f, ok := e.Field("userName")
	require.True(t, ok)
	assert.Equal(t, "userName", f.Name)

	_, ok = e.Field("missing")
	assert.False(t, ok)

	ref := e.Ref("GetUserName")
	assert.Equal(t, FieldRef{Entity: "app.UserAccount", Accessor: "GetUserName"}, ref)
	assert.Equal(t, "app.UserAccount#GetUserName", ref.String())
}

func TestField_Excluded(t *testing.T) {
	assert.False(t, (&Field{Name: "a"}).Excluded())
	assert.False(t, (&Field{Name: "a", Mapping: &TableField{Value: "b"}}).Excluded())
	assert.True(t, (&Field{Name: "a", Mapping: &TableField{Exclude: true}}).Excluded())
}
