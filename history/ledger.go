package history

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grovetools/kvstore/observable"
)

// LedgerState is the replay state of a single ledger.
type LedgerState int

const (
	// Idle ledgers record changes to their key as they happen.
	Idle LedgerState = iota
	// RecordingAction ledgers are collecting the changes of an open action.
	RecordingAction
	// Reverting ledgers are replaying an entry for undo or redo. Changes
	// observed in this state are dropped.
	Reverting
)

func (s LedgerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case RecordingAction:
		return "recording"
	case Reverting:
		return "reverting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Entry is one undoable step: the changes of a single mutation or of a whole
// action, newest first. Reverting Changes in slice order undoes the step.
type Entry struct {
	ID      uuid.UUID
	Name    string
	Changes []observable.Change
}

func newEntry(name string, changes ...observable.Change) *Entry {
	return &Entry{ID: uuid.New(), Name: name, Changes: changes}
}

// prepend adds c as the newest change of the entry.
func (e *Entry) prepend(c observable.Change) {
	e.Changes = append([]observable.Change{c}, e.Changes...)
}

// Ledger is the past/future double stack for one key. The past holds at most
// limit entries when limit is positive; the oldest are evicted first.
type Ledger struct {
	past   []*Entry
	future []*Entry
	limit  int
	state  LedgerState
}

func newLedger(limit int) *Ledger {
	return &Ledger{limit: limit}
}

// record pushes a freshly observed entry. A fresh edit invalidates the redo
// branch.
func (l *Ledger) record(e *Entry) {
	l.pushPast(e)
	l.future = nil
}

func (l *Ledger) pushPast(e *Entry) {
	l.past = append(l.past, e)
	if l.limit > 0 && len(l.past) > l.limit {
		// Evict oldest
		l.past = l.past[len(l.past)-l.limit:]
	}
}

func (l *Ledger) pushFuture(e *Entry) {
	l.future = append(l.future, e)
}

func (l *Ledger) popPast() *Entry {
	last := l.past[len(l.past)-1]
	l.past[len(l.past)-1] = nil
	l.past = l.past[:len(l.past)-1]
	return last
}

func (l *Ledger) popFuture() *Entry {
	last := l.future[len(l.future)-1]
	l.future[len(l.future)-1] = nil
	l.future = l.future[:len(l.future)-1]
	return last
}

// Past returns the number of undoable entries.
func (l *Ledger) Past() int { return len(l.past) }

// Future returns the number of redoable entries.
func (l *Ledger) Future() int { return len(l.future) }

// CanUndo reports whether the past is non-empty.
func (l *Ledger) CanUndo() bool { return len(l.past) > 0 }

// CanRedo reports whether the future is non-empty.
func (l *Ledger) CanRedo() bool { return len(l.future) > 0 }

// State returns the ledger's replay state.
func (l *Ledger) State() LedgerState { return l.state }

// Suppressed reports whether observed changes are currently being ignored
// because the ledger is replaying history.
func (l *Ledger) Suppressed() bool { return l.state == Reverting }

// Limit returns the capacity of the past, or 0 when unbounded.
func (l *Ledger) Limit() int { return l.limit }
