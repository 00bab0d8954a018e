package observable

import (
	"fmt"
	"reflect"
)

// Equal reports whether two plain values are deeply equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Clone returns a deep copy of plain data. Slices and string-keyed maps are
// copied recursively; every other value is returned as is.
func Clone(v any) any {
	switch val := v.(type) {
	case []any:
		if val == nil {
			return []any(nil)
		}
		cp := make([]any, len(val))
		for i, item := range val {
			cp[i] = Clone(item)
		}
		return cp
	case map[string]any:
		if val == nil {
			return map[string]any(nil)
		}
		cp := make(map[string]any, len(val))
		for k, item := range val {
			cp[k] = Clone(item)
		}
		return cp
	default:
		return v
	}
}

// Plain converts typed Go collections into the plain shapes containers work
// with: any slice or array becomes []any and any string-keyed map becomes
// map[string]any, recursively. Other values are returned unchanged.
func Plain(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Plain(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Plain(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Plain(iter.Value().Interface())
		}
		return out
	}
	return v
}
