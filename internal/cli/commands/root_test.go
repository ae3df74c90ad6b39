package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEntities = `
entities:
  - package: app
    name: BaseModel
    framework: true
    fields:
      - name: createdAt
  - package: app
    name: UserAccount
    parent: BaseModel
    key_sequence:
      value: user_seq
    fields:
      - name: id
      - name: userName
      - name: password
        exclude: true
      - name: location
        column: "lng;lat"
        el: "lng;lat"
  - package: app
    name: AuditLog
    fields:
      - name: message
`

const testConfig = `
database:
  column_underline: true
  sequence_generator: postgres
`

// writeFixtures writes a descriptor file and a config file and returns the flags pointing at them
func writeFixtures(t *testing.T, entities, config string) []string {
	t.Helper()
	dir := t.TempDir()

	entitiesPath := filepath.Join(dir, "entities.yaml")
	require.NoError(t, os.WriteFile(entitiesPath, []byte(entities), 0644))
	configPath := filepath.Join(dir, "tablemeta.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	return []string{"--config", configPath, "--entities", entitiesPath, "--no-color"}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "tablemeta", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "inspect", "column", "nextkey", "completion"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "entities", "no-color", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestNewVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	stdout, _, err := execute(t, "version", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "tablemeta version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
	assert.Contains(t, stdout, "Build date: 2025-01-01")
	assert.Contains(t, stdout, "Go version: go1.23")
}

func TestMissingEntitiesFile(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)
	flags[3] = filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := execute(t, append([]string{"inspect"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read descriptor file")
}

func TestInvalidConfig(t *testing.T) {
	flags := writeFixtures(t, testEntities, "database:\n  id_type: snowflake\n")

	_, stderr, err := execute(t, append([]string{"inspect"}, flags...)...)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "CONFIGURATION ERROR")
	assert.Contains(t, stderr, "unknown id type: snowflake")
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "tablemeta")
		})
	}

	_, _, err := execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompleteEntities(t *testing.T) {
	flags := writeFixtures(t, testEntities, testConfig)

	args := append([]string{"__complete", "nextkey"}, flags...)
	stdout, _, err := execute(t, append(args, "User")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "UserAccount\n")
	assert.NotContains(t, stdout, "BaseModel")
	assert.NotContains(t, stdout, "AuditLog")

	args = append([]string{"__complete", "column"}, flags...)
	stdout, _, err = execute(t, append(args, "app.A")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "app.AuditLog\n")
}
