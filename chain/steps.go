// Package chain runs read-only query pipelines over store values and wraps
// sequences in collections whose mutating helpers record a single change.
package chain

import (
	"fmt"
	"sort"

	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/observable"
	"github.com/samber/lo"
)

// Step transforms one intermediate value into the next.
type Step func(any) (any, error)

// Predicate tests a single element.
type Predicate func(any) bool

// Apply runs steps over input. Containers are snapshotted first, so the
// pipeline never touches live state.
func Apply(input any, steps ...Step) (any, error) {
	var value any
	switch v := input.(type) {
	case observable.Container:
		value = v.Snapshot()
	default:
		value = observable.Clone(observable.Plain(input))
	}

	for i, step := range steps {
		next, err := step(value)
		if err != nil {
			if storeErr, ok := err.(*errors.StoreError); ok {
				return nil, storeErr.WithDetail("step", i)
			}
			return nil, err
		}
		value = next
	}
	return value, nil
}

// Matches returns a predicate that holds for maps containing every field in
// fields with an equal value.
func Matches(fields map[string]any) Predicate {
	return func(item any) bool {
		m, ok := item.(map[string]any)
		if !ok {
			return false
		}
		for k, want := range fields {
			got, ok := m[k]
			if !ok || !observable.Equal(got, want) {
				return false
			}
		}
		return true
	}
}

// Values turns a map into its values ordered by key. Lists pass through.
func Values() Step {
	return func(v any) (any, error) {
		return toList(v)
	}
}

// Keys returns the sorted keys of a map, or the indexes of a list.
func Keys() Step {
	return func(v any) (any, error) {
		switch val := v.(type) {
		case map[string]any:
			keys := lo.Keys(val)
			sort.Strings(keys)
			return lo.Map(keys, func(k string, _ int) any { return k }), nil
		case []any:
			return lo.Map(val, func(_ any, i int) any { return i }), nil
		default:
			return nil, notCollection("keys", v)
		}
	}
}

// Filter keeps the elements matching pred.
func Filter(pred Predicate) Step {
	return listStep("filter", func(list []any) (any, error) {
		return lo.Filter(list, func(item any, _ int) bool { return pred(item) }), nil
	})
}

// Reject drops the elements matching pred.
func Reject(pred Predicate) Step {
	return listStep("reject", func(list []any) (any, error) {
		return lo.Reject(list, func(item any, _ int) bool { return pred(item) }), nil
	})
}

// Map replaces every element with fn's result.
func Map(fn func(any) any) Step {
	return listStep("map", func(list []any) (any, error) {
		return lo.Map(list, func(item any, _ int) any { return fn(item) }), nil
	})
}

// Take keeps the first n elements.
func Take(n int) Step {
	return listStep("take", func(list []any) (any, error) {
		if n <= 0 {
			return []any{}, nil
		}
		return lo.Slice(list, 0, n), nil
	})
}

// Drop removes the first n elements.
func Drop(n int) Step {
	return listStep("drop", func(list []any) (any, error) {
		if n <= 0 {
			return list, nil
		}
		return lo.Drop(list, n), nil
	})
}

// SortBy orders maps by the value of field. The sort is stable.
func SortBy(field string) Step {
	return SortByFunc(func(item any) any { return fieldOf(item, field) })
}

// SortByFunc orders elements by the key fn computes. The sort is stable.
func SortByFunc(fn func(any) any) Step {
	return listStep("sortBy", func(list []any) (any, error) {
		return sortedBy(list, fn), nil
	})
}

// Pluck maps every element to its field value.
func Pluck(field string) Step {
	return listStep("pluck", func(list []any) (any, error) {
		return lo.Map(list, func(item any, _ int) any { return fieldOf(item, field) }), nil
	})
}

// Pick keeps only the named fields. On a map it picks from the map itself;
// on a list it picks from every map element.
func Pick(fields ...string) Step {
	return func(v any) (any, error) {
		switch val := v.(type) {
		case map[string]any:
			return lo.PickByKeys(val, fields), nil
		case []any:
			return lo.Map(val, func(item any, _ int) any {
				if m, ok := item.(map[string]any); ok {
					return lo.PickByKeys(m, fields)
				}
				return item
			}), nil
		default:
			return nil, notCollection("pick", v)
		}
	}
}

// Find yields the first element matching pred, or nil.
func Find(pred Predicate) Step {
	return listStep("find", func(list []any) (any, error) {
		found, _ := lo.Find(list, func(item any) bool { return pred(item) })
		return found, nil
	})
}

// Uniq drops repeated elements, keeping the first occurrence.
func Uniq() Step {
	return listStep("uniq", func(list []any) (any, error) {
		return lo.UniqBy(list, identity), nil
	})
}

// Reverse reverses the element order.
func Reverse() Step {
	return listStep("reverse", func(list []any) (any, error) {
		cp := make([]any, len(list))
		copy(cp, list)
		return lo.Reverse(cp), nil
	})
}

func listStep(name string, fn func([]any) (any, error)) Step {
	return func(v any) (any, error) {
		list, err := toList(v)
		if err != nil {
			return nil, notCollection(name, v)
		}
		return fn(list)
	}
}

func toList(v any) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case map[string]any:
		keys := lo.Keys(val)
		sort.Strings(keys)
		return lo.Map(keys, func(k string, _ int) any { return val[k] }), nil
	case nil:
		return []any{}, nil
	default:
		return nil, notCollection("values", v)
	}
}

func fieldOf(item any, field string) any {
	if m, ok := item.(map[string]any); ok {
		return m[field]
	}
	return nil
}

func identity(item any) string {
	return fmt.Sprintf("%T:%#v", item, item)
}

func notCollection(step string, v any) error {
	return errors.New(errors.ErrCodeInvalidInput,
		fmt.Sprintf("%s expects a list or a map, got %T", step, v)).
		WithDetail("operation", step)
}
