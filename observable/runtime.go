package observable

import (
	"io"

	"github.com/sirupsen/logrus"
)

// maxReactionPasses bounds how often reactions are re-run when they keep
// mutating state themselves.
const maxReactionPasses = 100

// Disposer removes a spy or a reaction. Calling it more than once is a no-op.
type Disposer func()

type spy struct {
	fn       func(Change)
	disposed bool
}

type reaction struct {
	fn       func()
	disposed bool
}

// Runtime delivers container changes to spies and re-runs reactions.
type Runtime struct {
	spies     []*spy
	reactions []*reaction

	actions    []string
	batchDepth int
	emitDepth  int
	pending    bool
	running    bool

	log *logrus.Entry
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used for runtime diagnostics.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...Option) *Runtime {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	r := &Runtime{log: logrus.NewEntry(discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spy registers fn to receive every change reported by the runtime, in the
// order it is reported.
func (r *Runtime) Spy(fn func(Change)) Disposer {
	s := &spy{fn: fn}
	r.spies = append(r.spies, s)
	return func() {
		if s.disposed {
			return
		}
		s.disposed = true
		for i, other := range r.spies {
			if other == s {
				r.spies = append(r.spies[:i:i], r.spies[i+1:]...)
				break
			}
		}
	}
}

// Autorun runs fn immediately and again after every subsequent batch of
// changes until the returned Disposer is called.
func (r *Runtime) Autorun(fn func()) Disposer {
	re := &reaction{fn: fn}
	r.reactions = append(r.reactions, re)
	fn()
	return func() {
		if re.disposed {
			return
		}
		re.disposed = true
		for i, other := range r.reactions {
			if other == re {
				r.reactions = append(r.reactions[:i:i], r.reactions[i+1:]...)
				break
			}
		}
	}
}

// Batch runs fn and defers reactions until the outermost batch returns.
func (r *Runtime) Batch(fn func()) {
	r.batchDepth++
	defer func() {
		r.batchDepth--
		if r.batchDepth == 0 && r.pending {
			r.runReactions()
		}
	}()
	fn()
}

// RunInAction runs fn as the named action. The action is announced to spies
// with an action-start change before fn runs and an action-end change after
// it returns, even if fn panics. Reactions run once, after the action ends.
func (r *Runtime) RunInAction(name string, fn func()) {
	r.Batch(func() {
		r.actions = append(r.actions, name)
		r.emit(Change{Type: ChangeActionStart, Name: name})
		defer func() {
			r.actions = r.actions[:len(r.actions)-1]
			r.emit(Change{Type: ChangeActionEnd, Name: name})
		}()
		fn()
	})
}

// Depth returns the number of actions currently executing.
func (r *Runtime) Depth() int {
	return len(r.actions)
}

// CurrentAction returns the name of the innermost running action.
func (r *Runtime) CurrentAction() (string, bool) {
	if len(r.actions) == 0 {
		return "", false
	}
	return r.actions[len(r.actions)-1], true
}

// Emitting reports whether a change is being delivered to spies.
func (r *Runtime) Emitting() bool {
	return r.emitDepth > 0
}

// ReportChanged tells reactions that state changed in a way no container
// reported, such as a container being added or removed.
func (r *Runtime) ReportChanged() {
	r.pending = true
	if r.batchDepth == 0 {
		r.runReactions()
	}
}

// NewSequence creates a sequence owned by the runtime. items is copied.
func (r *Runtime) NewSequence(name string, items []any) *Sequence {
	cp := make([]any, len(items))
	copy(cp, items)
	return &Sequence{rt: r, name: name, items: cp}
}

// NewMap creates a keyed map owned by the runtime. Initial keys are inserted
// in sorted order.
func (r *Runtime) NewMap(name string, entries map[string]any) *Map {
	return &Map{keyed: newKeyed(r, name, entries)}
}

// NewRecord creates a keyed record owned by the runtime. Initial fields are
// inserted in sorted order.
func (r *Runtime) NewRecord(name string, fields map[string]any) *Record {
	return &Record{keyed: newKeyed(r, name, fields)}
}

func (r *Runtime) report(c Change) {
	r.emit(c)
	r.ReportChanged()
}

func (r *Runtime) emit(c Change) {
	r.emitDepth++
	defer func() { r.emitDepth-- }()
	spies := make([]*spy, len(r.spies))
	copy(spies, r.spies)
	for _, s := range spies {
		if !s.disposed {
			s.fn(c)
		}
	}
}

func (r *Runtime) runReactions() {
	if r.running {
		return
	}
	r.running = true
	defer func() { r.running = false }()

	for pass := 0; r.pending; pass++ {
		if pass == maxReactionPasses {
			r.log.WithField("passes", pass).Warn("Reactions did not settle, giving up")
			r.pending = false
			return
		}
		r.pending = false
		reactions := make([]*reaction, len(r.reactions))
		copy(reactions, r.reactions)
		for _, re := range reactions {
			if !re.disposed {
				re.fn()
			}
		}
	}
}
