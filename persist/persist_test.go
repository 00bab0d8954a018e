package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/kvstore/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	for _, name := range []string{"store.json", "store.yaml", "store.yml", "store.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			f := NewFile(nil)

			contents := map[string]any{
				"todos": []any{map[string]any{"title": "write tests", "done": false}},
				"users": map[string]any{"ada": map[string]any{"name": "Ada"}},
			}
			require.NoError(t, f.Write(path, contents))

			got, err := f.Read(path)
			require.NoError(t, err)
			todos := got["todos"].([]any)
			require.Len(t, todos, 1)
			assert.Equal(t, "write tests", todos[0].(map[string]any)["title"])
			assert.Equal(t, false, todos[0].(map[string]any)["done"])
			assert.Equal(t, "Ada", got["users"].(map[string]any)["ada"].(map[string]any)["name"])
		})
	}
}

func TestFileReadFailsSoft(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(nil)

	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: strPtr("")},
		{name: "whitespace", content: strPtr("  \n")},
		{name: "corrupt json", content: strPtr("{not json")},
		{name: "json array", content: strPtr("[1,2,3]")},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}
			got, err := f.Read(path)
			require.NoError(t, err, "case %d", i)
			assert.Equal(t, map[string]any{}, got)
		})
	}
}

func TestFileWriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFile(nil).Write(filepath.Join(blocker, "store.json"), map[string]any{})
	require.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	got, err := m.Read("todos")
	require.NoError(t, err)
	assert.Empty(t, got)

	in := map[string]any{"list": []any{1, 2}}
	require.NoError(t, m.Write("todos", in))
	in["list"].([]any)[0] = 99

	got, err = m.Read("todos")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, got["list"])
}

func TestBadgerInMemory(t *testing.T) {
	b, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Read("app")
	require.NoError(t, err)
	assert.Empty(t, got)

	sources, err := b.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, sources, "missing key is initialised")

	require.NoError(t, b.Write("app", map[string]any{"todos": []any{"a", "b"}}))
	got, err = b.Read("app")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got["todos"])
}

func TestBadgerPersistent(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, b.Write("app", map[string]any{"n": []any{1.0}}))
	require.NoError(t, b.Close())

	b, err = OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Read("app")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0}, got["n"])
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	a, source, err := Open(config.StorageConfig{Driver: config.DriverMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, a)
	assert.Equal(t, "kvstore", source)

	path := filepath.Join(t.TempDir(), "kv.json")
	a, source, err = Open(config.StorageConfig{Driver: config.DriverFile, Path: path}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, a)
	assert.Equal(t, path, source)

	a, source, err = Open(config.StorageConfig{Driver: config.DriverBadger, InMemory: true, Source: "todos"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "todos", source)
	require.NoError(t, a.(*Badger).Close())

	_, _, err = Open(config.StorageConfig{Driver: "redis"}, nil)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"a": map[any]any{1: "one"},
		"b": []string{"x", "y"},
		"c": []any{map[string]int{"n": 1}},
	}
	got := Normalize(in).(map[string]any)
	assert.Equal(t, map[string]any{"1": "one"}, got["a"])
	assert.Equal(t, []any{"x", "y"}, got["b"])
	assert.Equal(t, []any{map[string]any{"n": 1}}, got["c"])
}

func strPtr(s string) *string { return &s }
