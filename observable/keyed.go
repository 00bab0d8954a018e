package observable

import "sort"

// keyed is the insertion-ordered storage shared by Map and Record.
type keyed struct {
	rt     *Runtime
	name   string
	keys   []string
	values map[string]any
}

func newKeyed(rt *Runtime, name string, entries map[string]any) keyed {
	k := keyed{rt: rt, name: name, values: make(map[string]any, len(entries))}
	for _, key := range sortedKeys(entries) {
		k.keys = append(k.keys, key)
		k.values[key] = entries[key]
	}
	return k
}

func (k *keyed) Name() string      { return k.name }
func (k *keyed) Runtime() *Runtime { return k.rt }
func (k *keyed) Len() int          { return len(k.keys) }

// Keys returns the keys in insertion order.
func (k *keyed) Keys() []string {
	cp := make([]string, len(k.keys))
	copy(cp, k.keys)
	return cp
}

// Has reports whether key is present.
func (k *keyed) Has(key string) bool {
	_, ok := k.values[key]
	return ok
}

// ToMap returns a shallow copy of the entries.
func (k *keyed) ToMap() map[string]any {
	m := make(map[string]any, len(k.values))
	for key, v := range k.values {
		m[key] = v
	}
	return m
}

func (k *keyed) Snapshot() any {
	m := make(map[string]any, len(k.values))
	for key, v := range k.values {
		m[key] = Clone(v)
	}
	return m
}

func (k *keyed) get(key string) (any, bool) {
	v, ok := k.values[key]
	return v, ok
}

func (k *keyed) set(target Container, key string, v any) {
	old, ok := k.values[key]
	if ok {
		if Equal(old, v) {
			return
		}
		k.values[key] = v
		k.rt.report(Change{Type: ChangeUpdate, Target: target, Key: key, OldValue: old, NewValue: v})
		return
	}
	k.keys = append(k.keys, key)
	k.values[key] = v
	k.rt.report(Change{Type: ChangeAdd, Target: target, Key: key, NewValue: v})
}

func (k *keyed) delete(target Container, key string) bool {
	old, ok := k.values[key]
	if !ok {
		return false
	}
	delete(k.values, key)
	for i, existing := range k.keys {
		if existing == key {
			k.keys = append(k.keys[:i], k.keys[i+1:]...)
			break
		}
	}
	k.rt.report(Change{Type: ChangeDelete, Target: target, Key: key, OldValue: old})
	return true
}

// replace makes the entries equal to next: missing keys are deleted first,
// then the remaining keys are set in sorted order.
func (k *keyed) replace(target Container, next map[string]any) {
	for _, key := range k.Keys() {
		if _, keep := next[key]; !keep {
			k.delete(target, key)
		}
	}
	for _, key := range sortedKeys(next) {
		k.set(target, key, next[key])
	}
}

// Map is an observable string-keyed map that remembers insertion order.
type Map struct {
	keyed
}

func (m *Map) Kind() Kind { return KindMap }

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) { return m.get(key) }

// Set stores v under key, reporting an add for a new key and an update for
// an existing one.
func (m *Map) Set(key string, v any) { m.set(m, key, v) }

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool { return m.delete(m, key) }

// Replace makes the map's entries equal to entries.
func (m *Map) Replace(entries map[string]any) { m.replace(m, entries) }

// Record is an observable plain object. Fields are read and written by name;
// writing an unknown field extends the record.
type Record struct {
	keyed
}

func (r *Record) Kind() Kind { return KindRecord }

// Field returns the value of the named field.
func (r *Record) Field(name string) (any, bool) { return r.get(name) }

// SetField assigns a field.
func (r *Record) SetField(name string, v any) { r.set(r, name, v) }

// Extend adds or overwrites several fields, in sorted field order.
func (r *Record) Extend(fields map[string]any) {
	for _, name := range sortedKeys(fields) {
		r.set(r, name, fields[name])
	}
}

// DeleteField removes a field and reports whether it was present.
func (r *Record) DeleteField(name string) bool { return r.delete(r, name) }

// Replace makes the record's fields equal to fields.
func (r *Record) Replace(fields map[string]any) { r.replace(r, fields) }

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
