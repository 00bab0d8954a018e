package history

import (
	"fmt"

	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/observable"
)

// Revert applies the inverse of c to c.Target and returns a change describing
// that inverse. Reverting the returned change restores the state c produced,
// so Revert is its own inverse.
//
// The inverse is chosen by the target's Kind, never by its Go type.
func Revert(c observable.Change) (observable.Change, error) {
	if c.Target == nil {
		return observable.Change{}, errors.InvalidChange("change has no target")
	}

	switch c.Type {
	case observable.ChangeUpdate:
		return revertUpdate(c)
	case observable.ChangeSplice:
		return revertSplice(c)
	case observable.ChangeAdd:
		return revertAdd(c)
	case observable.ChangeDelete:
		return revertDelete(c)
	default:
		return observable.Change{}, errors.InvalidChange(fmt.Sprintf("%s is not a structural change", c.Type))
	}
}

func revertUpdate(c observable.Change) (observable.Change, error) {
	inverse := observable.Change{
		Type:     observable.ChangeUpdate,
		Target:   c.Target,
		Index:    c.Index,
		Key:      c.Key,
		NewValue: c.OldValue,
	}

	switch c.Target.Kind() {
	case observable.KindSequence:
		seq, err := asSequence(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		current, ok := seq.At(c.Index)
		if !ok {
			return observable.Change{}, outOfRange(c)
		}
		if err := seq.Set(c.Index, c.OldValue); err != nil {
			return observable.Change{}, err
		}
		inverse.OldValue = current

	case observable.KindMap:
		m, err := asMap(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		current, ok := m.Get(c.Key)
		if !ok {
			return observable.Change{}, missingKey(c)
		}
		m.Set(c.Key, c.OldValue)
		inverse.OldValue = current

	case observable.KindRecord:
		r, err := asRecord(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		current, ok := r.Field(c.Key)
		if !ok {
			return observable.Change{}, missingKey(c)
		}
		r.SetField(c.Key, c.OldValue)
		inverse.OldValue = current

	default:
		return observable.Change{}, unsupported(c)
	}
	return inverse, nil
}

func revertSplice(c observable.Change) (observable.Change, error) {
	seq, err := asSequence(c.Target)
	if err != nil {
		return observable.Change{}, err
	}
	if c.Index < 0 || c.AddedCount < 0 || c.Index+c.AddedCount > seq.Len() {
		return observable.Change{}, outOfRange(c)
	}

	restored := observable.Clone(c.Removed).([]any)
	displaced := seq.Splice(c.Index, c.AddedCount, restored...)
	if displaced == nil {
		displaced = []any{}
	}
	return observable.Change{
		Type:       observable.ChangeSplice,
		Target:     c.Target,
		Index:      c.Index,
		AddedCount: len(c.Removed),
		Added:      restored,
		Removed:    displaced,
	}, nil
}

func revertAdd(c observable.Change) (observable.Change, error) {
	var removed bool
	switch c.Target.Kind() {
	case observable.KindMap:
		m, err := asMap(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		removed = m.Delete(c.Key)
	case observable.KindRecord:
		r, err := asRecord(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		removed = r.DeleteField(c.Key)
	default:
		return observable.Change{}, unsupported(c)
	}
	if !removed {
		return observable.Change{}, missingKey(c)
	}
	return observable.Change{
		Type:     observable.ChangeDelete,
		Target:   c.Target,
		Key:      c.Key,
		OldValue: c.NewValue,
	}, nil
}

func revertDelete(c observable.Change) (observable.Change, error) {
	switch c.Target.Kind() {
	case observable.KindMap:
		m, err := asMap(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		if m.Has(c.Key) {
			return observable.Change{}, presentKey(c)
		}
		m.Set(c.Key, c.OldValue)
	case observable.KindRecord:
		r, err := asRecord(c.Target)
		if err != nil {
			return observable.Change{}, err
		}
		if r.Has(c.Key) {
			return observable.Change{}, presentKey(c)
		}
		r.SetField(c.Key, c.OldValue)
	default:
		return observable.Change{}, unsupported(c)
	}
	return observable.Change{
		Type:     observable.ChangeAdd,
		Target:   c.Target,
		Key:      c.Key,
		NewValue: c.OldValue,
	}, nil
}

func asSequence(c observable.Container) (*observable.Sequence, error) {
	seq, ok := c.(*observable.Sequence)
	if !ok || c.Kind() != observable.KindSequence {
		return nil, errors.InvalidChange(fmt.Sprintf("%q is a %s, not a sequence", c.Name(), c.Kind()))
	}
	return seq, nil
}

func asMap(c observable.Container) (*observable.Map, error) {
	m, ok := c.(*observable.Map)
	if !ok {
		return nil, errors.InvalidChange(fmt.Sprintf("%q is tagged %s but is a %T", c.Name(), c.Kind(), c))
	}
	return m, nil
}

func asRecord(c observable.Container) (*observable.Record, error) {
	r, ok := c.(*observable.Record)
	if !ok {
		return nil, errors.InvalidChange(fmt.Sprintf("%q is tagged %s but is a %T", c.Name(), c.Kind(), c))
	}
	return r, nil
}

func outOfRange(c observable.Change) error {
	return errors.InvalidChange(fmt.Sprintf("index %d out of range for %q", c.Index, c.Target.Name())).
		WithDetail("key", c.Target.Name()).
		WithDetail("index", c.Index)
}

func missingKey(c observable.Change) error {
	return errors.InvalidChange(fmt.Sprintf("%q has no key %q", c.Target.Name(), c.Key)).
		WithDetail("key", c.Target.Name()).
		WithDetail("field", c.Key)
}

func presentKey(c observable.Change) error {
	return errors.InvalidChange(fmt.Sprintf("%q already has key %q", c.Target.Name(), c.Key)).
		WithDetail("key", c.Target.Name()).
		WithDetail("field", c.Key)
}

func unsupported(c observable.Change) error {
	return errors.InvalidChange(fmt.Sprintf("%s is not supported on a %s", c.Type, c.Target.Kind()))
}
