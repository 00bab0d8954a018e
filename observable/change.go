package observable

import "fmt"

// Kind tags a container with the shape of data it holds. It is fixed when the
// container is created.
type Kind int

const (
	KindSequence Kind = iota + 1
	KindMap
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMap:
		return "keyed-map"
	case KindRecord:
		return "keyed-record"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Container is a tracked top-level value.
type Container interface {
	Kind() Kind
	// Name is the key the container was created under.
	Name() string
	Runtime() *Runtime
	// Snapshot returns a deep copy of the contents as plain data.
	Snapshot() any
	Len() int
}

// ChangeType identifies the variant carried by a Change.
type ChangeType string

const (
	ChangeUpdate ChangeType = "update"
	ChangeSplice ChangeType = "splice"
	ChangeAdd    ChangeType = "add"
	ChangeDelete ChangeType = "delete"

	// Bookkeeping changes delimiting a named action.
	ChangeActionStart ChangeType = "action-start"
	ChangeActionEnd   ChangeType = "action-end"
)

// Change describes a single observed mutation, or an action boundary.
//
// Structural changes carry everything needed to build their inverse:
//   - update: Index (sequences) or Key (maps, records), OldValue, NewValue
//   - splice: Index, AddedCount, Added, Removed
//   - add:    Key, NewValue
//   - delete: Key, OldValue
//
// Target is a back-reference used to locate the container; it does not own it.
type Change struct {
	Type   ChangeType
	Target Container

	// Name is the action name for action-start and action-end.
	Name string

	Index int
	Key   string

	OldValue any
	NewValue any

	AddedCount int
	Added      []any
	Removed    []any
}

// Structural reports whether the change mutates a container.
func (c Change) Structural() bool {
	switch c.Type {
	case ChangeUpdate, ChangeSplice, ChangeAdd, ChangeDelete:
		return true
	}
	return false
}

func (c Change) String() string {
	target := "<nil>"
	if c.Target != nil {
		target = c.Target.Name()
	}
	switch c.Type {
	case ChangeUpdate:
		if c.Target != nil && c.Target.Kind() == KindSequence {
			return fmt.Sprintf("update %s[%d]: %v -> %v", target, c.Index, c.OldValue, c.NewValue)
		}
		return fmt.Sprintf("update %s.%s: %v -> %v", target, c.Key, c.OldValue, c.NewValue)
	case ChangeSplice:
		return fmt.Sprintf("splice %s@%d: +%d -%d", target, c.Index, c.AddedCount, len(c.Removed))
	case ChangeAdd:
		return fmt.Sprintf("add %s.%s: %v", target, c.Key, c.NewValue)
	case ChangeDelete:
		return fmt.Sprintf("delete %s.%s: %v", target, c.Key, c.OldValue)
	default:
		return fmt.Sprintf("%s %s", c.Type, c.Name)
	}
}
