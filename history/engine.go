// Package history records the changes of an observable runtime as reversible
// entries and replays them for undo and redo.
//
// An Engine keeps one Ledger per key. Changes to a tracked container are
// recorded on the ledger of the key it was tracked under, one entry per
// change. Changes made while a named action runs are recorded as a single
// entry on the ledger named after the outermost action; nested actions are
// folded into it.
package history

import (
	"sort"

	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/logging"
	"github.com/grovetools/kvstore/observable"
	"github.com/sirupsen/logrus"
)

// scope is one frame of the action stack.
type scope struct {
	name       string
	startDepth int
}

// Engine owns the ledgers of one observable runtime. It is not safe for
// concurrent use.
type Engine struct {
	rt       *observable.Runtime
	ledgers  map[string]*Ledger
	tracked  map[observable.Container]string
	limit    int
	disabled bool
	log      *logrus.Entry

	dispose   observable.Disposer
	reverting bool

	scopes     []scope
	actionOpen bool
	actionKey  string
	actionStep *Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit caps the number of undoable entries per ledger. Zero or a
// negative limit means unbounded.
func WithLimit(limit int) Option {
	return func(e *Engine) {
		if limit < 0 {
			limit = 0
		}
		e.limit = limit
	}
}

// WithDisabled turns history off: no ledger is ever created and Undo and Redo
// always fail with HISTORY_DISABLED.
func WithDisabled() Option {
	return func(e *Engine) { e.disabled = true }
}

// WithLogger sets the engine's logger.
func WithLogger(log *logrus.Entry) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an engine and installs its spy on rt.
func NewEngine(rt *observable.Runtime, opts ...Option) *Engine {
	e := &Engine{
		rt:      rt,
		ledgers: make(map[string]*Ledger),
		tracked: make(map[observable.Container]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.NewLogger("history")
	}
	e.Install()
	return e
}

// Install attaches the engine's spy to its runtime. It is idempotent.
func (e *Engine) Install() {
	if e.dispose != nil {
		return
	}
	e.dispose = e.rt.Spy(e.observe)
}

// Close detaches the spy. Ledgers stay readable but nothing new is recorded.
func (e *Engine) Close() {
	if e.dispose != nil {
		e.dispose()
		e.dispose = nil
	}
}

// Runtime returns the runtime the engine observes.
func (e *Engine) Runtime() *observable.Runtime { return e.rt }

// Disabled reports whether history is turned off.
func (e *Engine) Disabled() bool { return e.disabled }

// Limit returns the per-ledger capacity, or 0 when unbounded.
func (e *Engine) Limit() int { return e.limit }

// Track records future changes of c on the ledger for key, creating the
// ledger if needed.
func (e *Engine) Track(key string, c observable.Container) error {
	if c.Runtime() != e.rt {
		return errors.New(errors.ErrCodeInvalidInput, "container belongs to a different runtime").
			WithDetail("key", key)
	}
	if e.disabled {
		return nil
	}
	e.tracked[c] = key
	e.ledger(key)
	return nil
}

// Untrack stops recording changes for key and drops its ledger.
func (e *Engine) Untrack(key string) {
	for c, k := range e.tracked {
		if k == key {
			delete(e.tracked, c)
		}
	}
	if !e.actionOpen || key != e.actionKey {
		delete(e.ledgers, key)
	}
}

// Tracked reports whether a ledger exists for key.
func (e *Engine) Tracked(key string) bool {
	_, ok := e.ledgers[key]
	return ok
}

// Ledger returns the ledger for key.
func (e *Engine) Ledger(key string) (*Ledger, bool) {
	l, ok := e.ledgers[key]
	return l, ok
}

// CanUndo reports whether key has anything to undo.
func (e *Engine) CanUndo(key string) bool {
	l, ok := e.ledgers[key]
	return ok && l.CanUndo()
}

// CanRedo reports whether key has anything to redo.
func (e *Engine) CanRedo(key string) bool {
	l, ok := e.ledgers[key]
	return ok && l.CanRedo()
}

// Past returns the number of undoable entries for key.
func (e *Engine) Past(key string) int {
	if l, ok := e.ledgers[key]; ok {
		return l.Past()
	}
	return 0
}

// Future returns the number of redoable entries for key.
func (e *Engine) Future(key string) int {
	if l, ok := e.ledgers[key]; ok {
		return l.Future()
	}
	return 0
}

// State returns the state of key's ledger. Unknown keys report Idle.
func (e *Engine) State(key string) LedgerState {
	if l, ok := e.ledgers[key]; ok {
		return l.State()
	}
	return Idle
}

// Keys returns the names of every ledger, sorted.
func (e *Engine) Keys() []string {
	keys := make([]string, 0, len(e.ledgers))
	for k := range e.ledgers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Engine) ledger(key string) *Ledger {
	l, ok := e.ledgers[key]
	if !ok {
		l = newLedger(e.limit)
		e.ledgers[key] = l
		e.log.WithField("key", key).Debug("Created history ledger")
	}
	return l
}
