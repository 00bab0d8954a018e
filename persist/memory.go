package persist

import "github.com/grovetools/kvstore/observable"

// Memory keeps saved contents in process memory.
type Memory struct {
	data map[string]map[string]any
}

// NewMemory returns an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]any)}
}

func (m *Memory) Read(source string) (map[string]any, error) {
	saved, ok := m.data[source]
	if !ok {
		return map[string]any{}, nil
	}
	return observable.Clone(saved).(map[string]any), nil
}

func (m *Memory) Write(dest string, contents map[string]any) error {
	m.data[dest] = normalizeContents(observable.Clone(contents).(map[string]any))
	return nil
}
