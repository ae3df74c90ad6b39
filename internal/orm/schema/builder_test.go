package schema

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBase struct {
	Model
	ID        int64 `tablemeta:"user_id,id=auto"`
	CreatedAt string
}

type testAccount struct {
	testBase
	UserName string
	Location string `tablemeta:"lng;lat,el=lng;lat"`
	Nickname string `tablemeta:"nick"`
	Scratch  string `tablemeta:"-"`
	internal string // nolint:unused not reflectable
}

func (testAccount) TableName() string { return "accounts" }

func (testAccount) KeySequence() KeySequence {
	return KeySequence{Value: "account_seq", ResultType: ResultInt64}
}

type testTwoParents struct {
	testBase
	Model
}

type testNode struct {
	*testNode
	Name string
}

type testLeft struct {
	*testRight
	A string
}

type testRight struct {
	*testLeft
	B string
}

type testBadID struct {
	Key string `tablemeta:",id=snowflake"`
}

func TestFromStruct(t *testing.T) {
	pkg := reflect.TypeOf(testAccount{}).PkgPath()

	e, err := FromStruct(&testAccount{})
	require.NoError(t, err)

	expected := &Entity{
		Package:     pkg,
		Name:        "testAccount",
		Table:       &TableName{Value: "accounts"},
		KeySequence: &KeySequence{Value: "account_seq"},
		Fields: []*Field{
			{Name: "userName"},
			{Name: "location", Mapping: &TableField{Value: "lng;lat", El: "lng;lat"}},
			{Name: "nickname", Mapping: &TableField{Value: "nick"}},
			{Name: "scratch", Mapping: &TableField{Exclude: true}},
		},
		Parent: &Entity{
			Package: pkg,
			Name:    "testBase",
			Fields: []*Field{
				{Name: "id", ID: &TableID{Value: "user_id", Type: IDAuto}},
				{Name: "createdAt"},
			},
			Parent: &Entity{
				Package:   reflect.TypeOf(Model{}).PkgPath(),
				Name:      "Model",
				Framework: true,
			},
		},
	}
	if diff := cmp.Diff(expected, e); diff != "" {
		t.Errorf("FromStruct returned unexpected entity:\n%s", diff)
	}

	assert.Equal(t, []string{"userName", "location", "nickname", "id", "createdAt"}, fieldNames(Enumerate(e)))
}

func TestFromStruct_Cached(t *testing.T) {
	first, err := FromStruct(testAccount{})
	require.NoError(t, err)
	second, err := FromStruct(&testAccount{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first.Parent, MustFromStruct(testBase{}))
}

func TestFromStruct_Errors(t *testing.T) {
	tests := map[string]struct {
		value    any
		expected string
	}{
		"nil": {
			value:    nil,
			expected: "given nil, expected struct",
		},
		"not a struct": {
			value:    3,
			expected: "given int, expected struct",
		},
		"anonymous struct": {
			value:    struct{ A int }{},
			expected: "anonymous struct types cannot be record types",
		},
		"bad id type": {
			value:    testBadID{},
			expected: "testBadID.Key: unknown id type: snowflake",
		},
		"two embedded structs": {
			value:    testTwoParents{},
			expected: "testTwoParents embeds more than one struct",
		},
		"embeds itself": {
			value:    testNode{},
			expected: "failed to process embedded struct testNode: testNode embeds itself",
		},
		"mutual embedding": {
			value:    &testLeft{},
			expected: "failed to process embedded struct testRight: failed to process embedded struct testLeft: testLeft embeds itself",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromStruct(tt.value)
			assert.EqualError(t, err, tt.expected)
		})
	}

	assert.Panics(t, func() { MustFromStruct(3) })
}

func TestTagOptions(t *testing.T) {
	column, opts := parseTag("user_id,id=auto,el=#{id}")
	assert.Equal(t, "user_id", column)

	v, ok := opts.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "auto", v)

	v, ok = opts.Get("el")
	assert.True(t, ok)
	assert.Equal(t, "#{id}", v)

	_, ok = opts.Get("exclude")
	assert.False(t, ok)

	_, opts = parseTag(",id")
	v, ok = opts.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}
