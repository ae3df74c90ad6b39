package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_JSON(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	stdout, stderr, err := execute(t, append([]string{"inspect", "--format", "json"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "⚠️ app.AuditLog has no primary key, key based operations are unavailable\n", stderr)

	var views []tableView
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 2, "framework bases are skipped")

	audit := views[0]
	assert.Equal(t, "app.AuditLog", audit.Entity)
	assert.Equal(t, "audit_log", audit.Table)
	assert.Equal(t, "none", audit.KeyType)
	assert.Empty(t, audit.KeyColumn)
	assert.Equal(t, []fieldView{{Property: "message", Column: "message", El: "message"}}, audit.Fields)

	user := views[1]
	assert.Equal(t, tableView{
		Entity:      "app.UserAccount",
		Table:       "user_account",
		KeyColumn:   "id",
		KeyProperty: "id",
		KeyType:     "sequence",
		KeySequence: "user_seq",
		Namespace:   "app.UserAccountMapper",
		Fields: []fieldView{
			{Property: "userName", Column: "user_name", El: "userName", Related: true},
			{Property: "location", Column: "lng", El: "lng", Related: true},
			{Property: "location", Column: "lat", El: "lat", Related: true},
		},
	}, user)
}

func TestInspect_Table(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	stdout, _, err := execute(t, append([]string{"inspect"}, flags...)...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "app.UserAccount\n───────────────\n")
	assert.Contains(t, stdout, "Table:        user_account")
	assert.Contains(t, stdout, "Key:          id -> id (sequence)")
	assert.Contains(t, stdout, "Key sequence: user_seq")
	assert.Contains(t, stdout, "PROPERTY  COLUMN     EL        RELATED")
	assert.Contains(t, stdout, "userName  user_name  userName  true")
	assert.Contains(t, stdout, "Key:   none")
	assert.Contains(t, stdout, "✓ Resolved 2 entities: app.AuditLog, app.UserAccount")
}

func TestInspect_Subtypes(t *testing.T) {
	entities := `
entities:
  - package: app
    name: Account
    fields:
      - name: id
  - package: app
    name: AdminAccount
    parent: Account
    fields:
      - name: role
`
	flags := writeFixtures(t, entities, testConfig)

	stdout, _, err := execute(t, append([]string{"inspect", "Account"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Subtypes:  app.AdminAccount")
}

func TestInspect_SelectedEntity(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	stdout, stderr, err := execute(t, append([]string{"inspect", "UserAccount", "--format", "json"}, flags...)...)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var views []tableView
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "app.UserAccount", views[0].Entity)
}

func TestInspect_UnknownEntity(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	_, stderr, err := execute(t, append([]string{"inspect", "UserAcount"}, flags...)...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "ENTITY NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: UserAccount?")
}

func TestInspect_MappingError(t *testing.T) {
	entities := `
entities:
  - package: app
    name: Place
    fields:
      - name: id
      - name: location
        column: "a;b"
        el: "c"
`
	flags := writeFixtures(t, entities, testConfig)

	_, stderr, err := execute(t, append([]string{"inspect"}, flags...)...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "MAPPING ERROR")
	assert.Contains(t, stderr, "column list (2) and expression list (1) must have the same length")
}

func TestInspect_DuplicateKey(t *testing.T) {
	entities := `
entities:
  - package: app
    name: Post
    fields:
      - name: id
        id: {}
      - name: slug
        id: {type: input}
`
	flags := writeFixtures(t, entities, testConfig)

	_, stderr, err := execute(t, append([]string{"inspect"}, flags...)...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "there must be only one primary key, found id and slug in app.Post")
}

func TestInspect_UnknownFormat(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	_, _, err := execute(t, append([]string{"inspect", "--format", "xml"}, flags...)...)
	assert.EqualError(t, err, `unknown format "xml", expected table or json`)
}
