package observable

import (
	"fmt"

	"github.com/grovetools/kvstore/errors"
)

// Sequence is an observable ordered list.
type Sequence struct {
	rt    *Runtime
	name  string
	items []any
}

func (s *Sequence) Kind() Kind        { return KindSequence }
func (s *Sequence) Name() string      { return s.name }
func (s *Sequence) Runtime() *Runtime { return s.rt }
func (s *Sequence) Len() int          { return len(s.items) }
func (s *Sequence) Snapshot() any     { return Clone(s.items) }

// At returns the element at index i.
func (s *Sequence) At(i int) (any, bool) {
	if i < 0 || i >= len(s.items) {
		return nil, false
	}
	return s.items[i], true
}

// Slice returns a shallow copy of the elements.
func (s *Sequence) Slice() []any {
	cp := make([]any, len(s.items))
	copy(cp, s.items)
	return cp
}

// Set overwrites the element at index i. Setting index Len() appends.
func (s *Sequence) Set(i int, v any) error {
	if i < 0 || i > len(s.items) {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("index %d out of range [0,%d]", i, len(s.items))).
			WithDetail("key", s.name)
	}
	if i == len(s.items) {
		s.Splice(i, 0, v)
		return nil
	}
	old := s.items[i]
	if Equal(old, v) {
		return nil
	}
	s.items[i] = v
	s.rt.report(Change{
		Type:     ChangeUpdate,
		Target:   s,
		Index:    i,
		OldValue: old,
		NewValue: v,
	})
	return nil
}

// Splice removes deleteCount elements starting at index and inserts items in
// their place. index and deleteCount are clamped to the sequence bounds. It
// returns the removed elements.
func (s *Sequence) Splice(index, deleteCount int, items ...any) []any {
	n := len(s.items)
	if index < 0 {
		index = 0
	}
	if index > n {
		index = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-index {
		deleteCount = n - index
	}
	if deleteCount == 0 && len(items) == 0 {
		return nil
	}

	removed := make([]any, deleteCount)
	copy(removed, s.items[index:index+deleteCount])
	added := make([]any, len(items))
	copy(added, items)

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, s.items[:index]...)
	next = append(next, added...)
	next = append(next, s.items[index+deleteCount:]...)
	s.items = next

	s.rt.report(Change{
		Type:       ChangeSplice,
		Target:     s,
		Index:      index,
		AddedCount: len(added),
		Added:      added,
		Removed:    removed,
	})
	return removed
}

// Push appends values and returns the new length.
func (s *Sequence) Push(values ...any) int {
	s.Splice(len(s.items), 0, values...)
	return len(s.items)
}

// Pop removes and returns the last element.
func (s *Sequence) Pop() (any, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.Splice(len(s.items)-1, 1)[0], true
}

// Shift removes and returns the first element.
func (s *Sequence) Shift() (any, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.Splice(0, 1)[0], true
}

// Unshift prepends values and returns the new length.
func (s *Sequence) Unshift(values ...any) int {
	s.Splice(0, 0, values...)
	return len(s.items)
}

// Replace swaps the whole contents for items and returns the previous
// elements. Replacing with equal contents reports nothing.
func (s *Sequence) Replace(items []any) []any {
	if Equal(s.items, items) || (len(s.items) == 0 && len(items) == 0) {
		return nil
	}
	return s.Splice(0, len(s.items), items...)
}

// Clear removes every element.
func (s *Sequence) Clear() []any {
	return s.Splice(0, len(s.items))
}
