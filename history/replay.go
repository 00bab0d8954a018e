package history

import (
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/observable"
	"github.com/sirupsen/logrus"
)

const (
	opUndo = "undo"
	opRedo = "redo"
)

// Undo reverts the most recent entry of key and moves its inverse onto the
// future. key is either a tracked key or an action name.
func (e *Engine) Undo(key string) error {
	return e.travel(opUndo, key)
}

// Redo re-applies the most recently undone entry of key.
func (e *Engine) Redo(key string) error {
	return e.travel(opRedo, key)
}

func (e *Engine) travel(op, key string) error {
	if e.reverting || e.rt.Emitting() {
		return errors.Reentrant(op, key)
	}
	if e.disabled {
		return errors.HistoryDisabled(key)
	}
	l, ok := e.ledgers[key]
	if !ok {
		return errors.UnknownKey(key)
	}
	if l.state != Idle {
		return errors.Reentrant(op, key).WithDetail("state", l.state.String())
	}

	var entry *Entry
	switch op {
	case opUndo:
		if !l.CanUndo() {
			return errors.EmptyHistory(key)
		}
		entry = l.popPast()
	default:
		if !l.CanRedo() {
			return errors.EmptyFuture(key)
		}
		entry = l.popFuture()
	}

	var err error
	e.rt.Batch(func() {
		e.reverting = true
		l.state = Reverting
		defer func() {
			e.reverting = false
			l.state = Idle
		}()

		var inverse *Entry
		inverse, err = replay(entry)
		if err != nil {
			// Put the entry back where it came from.
			if op == opUndo {
				l.pushPast(entry)
			} else {
				l.pushFuture(entry)
			}
			return
		}
		if op == opUndo {
			l.pushFuture(inverse)
		} else {
			l.pushPast(inverse)
		}
	})
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{"key": key, "op": op}).Warn("History replay failed")
		return err
	}

	e.log.WithFields(logrus.Fields{
		"key":     key,
		"op":      op,
		"entry":   entry.ID,
		"changes": len(entry.Changes),
	}).Debug("Replayed history entry")
	return nil
}

// replay reverts every change of entry in stored (newest first) order and
// returns the inverse entry, itself newest first. If a change cannot be
// reverted, the inverses applied so far are rolled back.
func replay(entry *Entry) (*Entry, error) {
	applied := make([]observable.Change, 0, len(entry.Changes))
	for _, c := range entry.Changes {
		inv, err := Revert(c)
		if err != nil {
			for i := len(applied) - 1; i >= 0; i-- {
				// Best effort; the original error is what the caller needs.
				_, _ = Revert(applied[i])
			}
			return nil, err
		}
		applied = append(applied, inv)
	}

	inverse := &Entry{ID: entry.ID, Name: entry.Name, Changes: make([]observable.Change, 0, len(applied))}
	for i := len(applied) - 1; i >= 0; i-- {
		inverse.Changes = append(inverse.Changes, applied[i])
	}
	return inverse, nil
}
