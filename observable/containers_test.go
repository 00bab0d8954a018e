package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceSplice(t *testing.T) {
	rt := NewRuntime()
	seq := rt.NewSequence("list", []any{1, 2, 3, 4})

	removed := seq.Splice(1, 2, "a", "b", "c")
	assert.Equal(t, []any{2, 3}, removed)
	assert.Equal(t, []any{1, "a", "b", "c", 4}, seq.Slice())

	// Out of range arguments are clamped.
	removed = seq.Splice(10, 5, 9)
	assert.Empty(t, removed)
	assert.Equal(t, []any{1, "a", "b", "c", 4, 9}, seq.Slice())

	assert.Nil(t, seq.Splice(0, 0))
}

func TestSequenceSet(t *testing.T) {
	rt := NewRuntime()
	seq := rt.NewSequence("list", []any{1})

	require.NoError(t, seq.Set(1, 2))
	assert.Equal(t, []any{1, 2}, seq.Slice())

	err := seq.Set(5, 0)
	require.Error(t, err)

	v, ok := seq.At(1)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = seq.At(-1)
	assert.False(t, ok)
}

func TestSequenceShiftUnshift(t *testing.T) {
	rt := NewRuntime()
	seq := rt.NewSequence("list", nil)

	_, ok := seq.Pop()
	assert.False(t, ok)

	assert.Equal(t, 2, seq.Unshift("b", "c"))
	assert.Equal(t, 3, seq.Unshift("a"))
	v, ok := seq.Shift()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	assert.Equal(t, []any{"b", "c"}, seq.Clear())
	assert.Equal(t, 0, seq.Len())
}

func TestSequenceSliceIsACopy(t *testing.T) {
	rt := NewRuntime()
	seq := rt.NewSequence("list", []any{1, 2})
	s := seq.Slice()
	s[0] = 100
	v, _ := seq.At(0)
	assert.Equal(t, 1, v)
}

func TestMapAddUpdateDelete(t *testing.T) {
	rt := NewRuntime()
	var changes []Change
	rt.Spy(func(c Change) { changes = append(changes, c) })

	m := rt.NewMap("m", map[string]any{"b": 2, "a": 1})
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	m.Set("c", 3)
	m.Set("a", 10)
	m.Set("a", 10)
	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))

	require.Len(t, changes, 3)
	assert.Equal(t, ChangeAdd, changes[0].Type)
	assert.Equal(t, ChangeUpdate, changes[1].Type)
	assert.Equal(t, 1, changes[1].OldValue)
	assert.Equal(t, ChangeDelete, changes[2].Type)
	assert.Equal(t, 2, changes[2].OldValue)
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	assert.Equal(t, map[string]any{"a": 10, "c": 3}, m.Snapshot())
}

func TestMapReplace(t *testing.T) {
	rt := NewRuntime()
	m := rt.NewMap("m", map[string]any{"a": 1, "b": 2})

	m.Replace(map[string]any{"b": 3, "c": 4})
	assert.Equal(t, map[string]any{"b": 3, "c": 4}, m.ToMap())
	assert.Equal(t, []string{"b", "c"}, m.Keys())
}

func TestRecordFields(t *testing.T) {
	rt := NewRuntime()
	r := rt.NewRecord("user", map[string]any{"name": "ada"})
	assert.Equal(t, KindRecord, r.Kind())

	r.Extend(map[string]any{"age": 36, "name": "ada"})
	v, ok := r.Field("age")
	require.True(t, ok)
	assert.Equal(t, 36, v)

	r.SetField("name", "grace")
	assert.True(t, r.DeleteField("age"))
	assert.Equal(t, map[string]any{"name": "grace"}, r.Snapshot())
}

func TestSnapshotIsDeep(t *testing.T) {
	rt := NewRuntime()
	seq := rt.NewSequence("list", []any{map[string]any{"a": 1}})
	snap := seq.Snapshot().([]any)
	snap[0].(map[string]any)["a"] = 2

	v, _ := seq.At(0)
	assert.Equal(t, map[string]any{"a": 1}, v)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, []any{1, 2}, Plain([]int{1, 2}))
	assert.Equal(t, map[string]any{"a": []any{"x"}}, Plain(map[string][]string{"a": {"x"}}))
	assert.Equal(t, 3, Plain(3))
	assert.Nil(t, Plain(nil))
	assert.Equal(t, []byte("raw"), Plain([]byte("raw")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "keyed-map", KindMap.String())
	assert.Equal(t, "keyed-record", KindRecord.String())
}
