package chain

import (
	"testing"

	"github.com/grovetools/kvstore/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollection(items ...any) (*Collection, *int) {
	rt := observable.NewRuntime()
	seq := rt.NewSequence("items", items)
	changes := 0
	rt.Spy(func(c observable.Change) {
		if c.Structural() {
			changes++
		}
	})
	return NewCollection(seq), &changes
}

func TestCollectionReadsDoNotRecord(t *testing.T) {
	col, changes := newCollection(1, 2, 3)

	v, ok := col.Find(func(v any) bool { return v == 1 })
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []any{2, 3}, col.Filter(gt(1)))
	assert.True(t, col.Includes(3))
	assert.False(t, col.Includes(4))
	assert.Equal(t, 3, col.Len())

	got, err := col.Query(Filter(gt(2)))
	require.NoError(t, err)
	assert.Equal(t, []any{3}, got)

	assert.Zero(t, *changes)
}

func TestCollectionAssign(t *testing.T) {
	col, changes := newCollection(1, 2, 3)

	col.Assign([]any{5, 2, 3})
	assert.Equal(t, []any{5, 2, 3}, col.Value())
	assert.Equal(t, 1, *changes)

	col.Assign([]any{5, 2, 3})
	assert.Equal(t, 1, *changes, "assigning equal contents records nothing")
}

func TestCollectionMutators(t *testing.T) {
	col, changes := newCollection(
		map[string]any{"id": 2, "done": false},
		map[string]any{"id": 1, "done": true},
	)

	col.Push(map[string]any{"id": 3, "done": false})
	assert.Equal(t, 3, col.Len())

	col.SortBy("id")
	ids, err := col.Query(Pluck("id"))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, ids)

	col.Update(Matches(map[string]any{"id": 2}), func(v any) any {
		m := v.(map[string]any)
		m["done"] = true
		return m
	})
	done, err := col.Query(Filter(Matches(map[string]any{"done": true})), Pluck("id"))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, done)

	removed := col.Remove(Matches(map[string]any{"done": true}))
	assert.Len(t, removed, 2)
	assert.Equal(t, []any{map[string]any{"id": 3, "done": false}}, col.Value())

	col.Reverse()
	assert.Equal(t, 4, *changes, "reversing one element records nothing")
}

func TestCollectionPull(t *testing.T) {
	col, changes := newCollection(1, 2, 3, 2)
	col.Pull(2)
	assert.Equal(t, []any{1, 3}, col.Value())
	col.Pull(9)
	assert.Equal(t, 1, *changes)
}

func TestCollectionValueIsACopy(t *testing.T) {
	col, changes := newCollection(map[string]any{"a": 1})
	v := col.Value()
	v[0].(map[string]any)["a"] = 2
	first, _ := col.Sequence().At(0)
	assert.Equal(t, 1, first.(map[string]any)["a"])
	assert.Zero(t, *changes)
}

func TestChainIsLazy(t *testing.T) {
	col, changes := newCollection(
		map[string]any{"a": 1},
		map[string]any{"a": 2},
		map[string]any{"a": 3},
	)

	ch := col.Chain().Find(Matches(map[string]any{"a": 1})).Assign(map[string]any{"a": 4})
	assert.Zero(t, *changes)

	got := ch.Value()
	assert.Equal(t, []any{map[string]any{"a": 4}}, got)
	assert.Equal(t, 1, *changes)
	first, _ := col.Sequence().At(0)
	assert.Equal(t, map[string]any{"a": 4}, first)

	ch.Value()
	assert.Equal(t, 1, *changes, "value records once")
}

func TestChainFilterRemove(t *testing.T) {
	col, changes := newCollection(1, 2, 3, 4)

	col.Chain().Filter(gt(2)).Remove().Value()
	assert.Equal(t, []any{1, 2}, col.Value())
	assert.Equal(t, 1, *changes)

	col.Chain().Filter(gt(5)).Update(func(v any) any { return 0 }).Value()
	assert.Equal(t, 1, *changes, "no-op chain records nothing")
}

func TestChainFindMiss(t *testing.T) {
	col, _ := newCollection(1, 2)
	assert.Empty(t, col.Chain().Find(gt(9)).Value())
}

func TestCollectionUpdateDoesNotAliasResult(t *testing.T) {
	col, _ := newCollection(map[string]any{"id": 1})

	replacement := map[string]any{"id": 2}
	col.Update(Matches(map[string]any{"id": 1}), func(any) any { return replacement })

	replacement["id"] = 3
	assert.Equal(t, []any{map[string]any{"id": 2}}, col.Value())
}
