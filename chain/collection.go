package chain

import (
	"github.com/grovetools/kvstore/observable"
	"github.com/samber/lo"
)

// Collection wraps a sequence with query and update helpers. Reads never
// mutate. Every mutating helper computes the new contents on a working copy
// and then records them with one replace, skipped when nothing changed.
type Collection struct {
	seq *observable.Sequence
}

// NewCollection binds a collection to seq.
func NewCollection(seq *observable.Sequence) *Collection {
	return &Collection{seq: seq}
}

// Sequence returns the underlying sequence.
func (c *Collection) Sequence() *observable.Sequence { return c.seq }

// Value returns a deep copy of the contents.
func (c *Collection) Value() []any {
	return c.working()
}

// Len returns the number of elements.
func (c *Collection) Len() int { return c.seq.Len() }

// Find returns the first element matching pred.
func (c *Collection) Find(pred Predicate) (any, bool) {
	return lo.Find(c.working(), func(item any) bool { return pred(item) })
}

// Filter returns the elements matching pred.
func (c *Collection) Filter(pred Predicate) []any {
	return lo.Filter(c.working(), func(item any, _ int) bool { return pred(item) })
}

// Includes reports whether an element equal to v is present.
func (c *Collection) Includes(v any) bool {
	return lo.ContainsBy(c.seq.Slice(), func(item any) bool { return observable.Equal(item, v) })
}

// Query runs steps over a snapshot of the collection.
func (c *Collection) Query(steps ...Step) (any, error) {
	return Apply(c.seq, steps...)
}

// Assign replaces the whole contents.
func (c *Collection) Assign(items []any) *Collection {
	c.commit(observable.Clone(observable.Plain(items)).([]any))
	return c
}

// Push appends items.
func (c *Collection) Push(items ...any) *Collection {
	next := c.working()
	for _, item := range items {
		next = append(next, observable.Clone(observable.Plain(item)))
	}
	c.commit(next)
	return c
}

// Remove deletes the elements matching pred and returns them.
func (c *Collection) Remove(pred Predicate) []any {
	working := c.working()
	removed := lo.Filter(working, func(item any, _ int) bool { return pred(item) })
	c.commit(lo.Reject(working, func(item any, _ int) bool { return pred(item) }))
	return removed
}

// Pull deletes every element equal to one of values.
func (c *Collection) Pull(values ...any) *Collection {
	c.commit(lo.Reject(c.working(), func(item any, _ int) bool {
		return lo.ContainsBy(values, func(v any) bool { return observable.Equal(item, v) })
	}))
	return c
}

// Reverse reverses the element order.
func (c *Collection) Reverse() *Collection {
	c.commit(lo.Reverse(c.working()))
	return c
}

// SortBy orders map elements by field.
func (c *Collection) SortBy(field string) *Collection {
	c.commit(sortedBy(c.working(), func(item any) any { return fieldOf(item, field) }))
	return c
}

// Update replaces every element matching pred with fn's result.
func (c *Collection) Update(pred Predicate, fn func(any) any) *Collection {
	c.commit(lo.Map(c.working(), func(item any, _ int) any {
		if pred(item) {
			return observable.Clone(observable.Plain(fn(item)))
		}
		return item
	}))
	return c
}

// Chain starts a lazy chain over a working copy of the contents. Nothing is
// recorded until the chain's Value is called.
func (c *Collection) Chain() *Chain {
	working := c.working()
	return &Chain{
		col:     c,
		working: working,
		focus:   lo.Range(len(working)),
	}
}

func (c *Collection) working() []any {
	return c.seq.Snapshot().([]any)
}

// commit is the record-and-continue step: the sequence is replaced only
// when next differs from the current contents.
func (c *Collection) commit(next []any) {
	if next == nil {
		next = []any{}
	}
	c.seq.Replace(next)
}

// Chain is a lazy sequence of edits over a collection. Each call narrows or
// edits the focused elements of a working copy; Value records the result.
type Chain struct {
	col       *Collection
	working   []any
	focus     []int
	committed bool
}

// Find narrows the focus to the first focused element matching pred.
func (ch *Chain) Find(pred Predicate) *Chain {
	idx, ok := lo.Find(ch.focus, func(i int) bool { return pred(ch.working[i]) })
	if !ok {
		ch.focus = nil
		return ch
	}
	ch.focus = []int{idx}
	return ch
}

// Filter narrows the focus to the focused elements matching pred.
func (ch *Chain) Filter(pred Predicate) *Chain {
	ch.focus = lo.Filter(ch.focus, func(i int, _ int) bool { return pred(ch.working[i]) })
	return ch
}

// Assign merges fields into every focused map element.
func (ch *Chain) Assign(fields map[string]any) *Chain {
	for _, i := range ch.focus {
		if m, ok := ch.working[i].(map[string]any); ok {
			ch.working[i] = lo.Assign(m, observable.Clone(fields).(map[string]any))
		}
	}
	return ch
}

// Update replaces every focused element with fn's result.
func (ch *Chain) Update(fn func(any) any) *Chain {
	for _, i := range ch.focus {
		ch.working[i] = observable.Plain(fn(ch.working[i]))
	}
	return ch
}

// Remove drops the focused elements. The focus becomes empty.
func (ch *Chain) Remove() *Chain {
	drop := lo.SliceToMap(ch.focus, func(i int) (int, bool) { return i, true })
	ch.working = lo.Reject(ch.working, func(_ any, i int) bool { return drop[i] })
	ch.focus = nil
	return ch
}

// Value records the working copy on the collection, once, and returns the
// focused elements.
func (ch *Chain) Value() []any {
	if !ch.committed {
		ch.col.commit(observable.Clone(ch.working).([]any))
		ch.committed = true
	}
	return lo.Map(ch.focus, func(i int, _ int) any { return observable.Clone(ch.working[i]) })
}
