package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupConfig writes a config file that stores data in a temp dir.
func setupConfig(t *testing.T, ext string) (cfgPath, dataPath string) {
	t.Helper()
	dataPath = testutil.TempStoragePath(t, ext)
	cfgPath = testutil.WriteFile(t, filepath.Join(filepath.Dir(dataPath), "kvstore.yml"),
		fmt.Sprintf("storage:\n  driver: file\n  path: %s\n", dataPath))
	return cfgPath, dataPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSetGetRoundTrip(t *testing.T) {
	cfgPath, dataPath := setupConfig(t, ".json")

	_, err := run(t, cfgPath, "set", "todos", `[{"title":"a","done":false}]`)
	require.NoError(t, err)

	out, err := run(t, cfgPath, "--json", "get", "todos")
	require.NoError(t, err)
	var got []any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{map[string]any{"title": "a", "done": false}}, got)

	assert.Contains(t, testutil.ReadJSON(t, dataPath), "todos")
}

func TestPushAndQuery(t *testing.T) {
	cfgPath, _ := setupConfig(t, ".yaml")

	_, err := run(t, cfgPath, "push", "todos",
		`{"title":"c","done":false}`,
		`{"title":"a","done":true}`,
		`{"title":"b","done":false}`,
	)
	require.NoError(t, err)

	out, err := run(t, cfgPath, "--json", "query", "todos", "--filter", "done=false", "--sort", "title", "--pluck", "title")
	require.NoError(t, err)
	var titles []any
	require.NoError(t, json.Unmarshal([]byte(out), &titles))
	assert.Equal(t, []any{"b", "c"}, titles)

	out, err = run(t, cfgPath, "--json", "query", "todos", "--take", "1", "--reverse", "--pluck", "title")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &titles))
	assert.Equal(t, []any{"b"}, titles)
}

func TestKeysContentsDelete(t *testing.T) {
	cfgPath, _ := setupConfig(t, ".json")

	_, err := run(t, cfgPath, "set", "b", `{"x":1}`)
	require.NoError(t, err)
	_, err = run(t, cfgPath, "set", "a", `[1]`)
	require.NoError(t, err)

	out, err := run(t, cfgPath, "--json", "keys")
	require.NoError(t, err)
	var keys []string
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, []string{"a", "b"}, keys)

	out, err = run(t, cfgPath, "contents")
	require.NoError(t, err)
	assert.Contains(t, out, "a:")
	assert.Contains(t, out, "x: 1")

	_, err = run(t, cfgPath, "delete", "a")
	require.NoError(t, err)
	_, err = run(t, cfgPath, "get", "a")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownKey))
}

func TestSetKindChangeFails(t *testing.T) {
	cfgPath, _ := setupConfig(t, ".json")
	_, err := run(t, cfgPath, "set", "a", `[1]`)
	require.NoError(t, err)

	_, err = run(t, cfgPath, "set", "a", `{"x":1}`)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTopLevelValue))

	_, err = run(t, cfgPath, "set", "c", `42`)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidTopLevelValue))
}

func TestQueryBadFilter(t *testing.T) {
	cfgPath, _ := setupConfig(t, ".json")
	_, err := run(t, cfgPath, "query", "a", "--filter", "nofield")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestConfigCmd(t *testing.T) {
	cfgPath, dataPath := setupConfig(t, ".json")
	out, err := run(t, cfgPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: "+cfgPath)
	assert.Contains(t, out, dataPath)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "missing.yml"), "keys")
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestSchemaAndVersion(t *testing.T) {
	cfgPath, _ := setupConfig(t, ".json")

	out, err := run(t, cfgPath, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "history_limit")

	out, err = run(t, cfgPath, "--json", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 1.0, parseValue("1"))
	assert.Equal(t, "hello", parseValue("hello"))
	assert.Equal(t, []any{"a"}, parseValue(`["a"]`))
}
