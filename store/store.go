// Package store is a keyed collection of observable values with per-key
// undo and redo, optional persistence and query helpers.
//
// A Store is not safe for concurrent use.
package store

import (
	"io"
	"sort"

	"github.com/grovetools/kvstore/chain"
	"github.com/grovetools/kvstore/config"
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/history"
	"github.com/grovetools/kvstore/logging"
	"github.com/grovetools/kvstore/observable"
	"github.com/grovetools/kvstore/persist"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

// RecordFields marks a top-level value that should be stored as a record
// rather than a map.
type RecordFields map[string]any

// AsRecord marks fields to be stored as a record.
func AsRecord(fields map[string]any) RecordFields {
	return RecordFields(fields)
}

// Store holds top-level observable containers by key.
type Store struct {
	rt         *observable.Runtime
	engine     *history.Engine
	ownsEngine bool

	values map[string]observable.Container
	order  []string

	states     []map[string]any
	stateLimit int

	disposers []observable.Disposer
	closers   []io.Closer
	log       *logrus.Entry
}

// New creates a store from initial. Slices become sequences, string-keyed
// maps become maps and AsRecord values become records.
func New(initial map[string]any, opts ...Option) (*Store, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logging.NewLogger("store")
	}

	s := &Store{
		values: make(map[string]observable.Container),
		log:    o.log,
	}

	if o.cfg != nil {
		if o.historyLimit == nil {
			limit := o.cfg.HistoryLimit
			o.historyLimit = &limit
		}
		o.noHistory = o.noHistory || o.cfg.NoHistory
		if o.storage == nil && o.cfg.Storage.Driver != "" && o.cfg.Storage.Driver != config.DriverMemory {
			adapter, source, err := persist.Open(o.cfg.Storage, o.log)
			if err != nil {
				return nil, err
			}
			o.storage, o.source = adapter, source
		}
	}

	if o.engine != nil {
		s.engine = o.engine
		s.rt = o.engine.Runtime()
	} else {
		s.rt = observable.NewRuntime(observable.WithLogger(o.log))
		engineOpts := []history.Option{history.WithLogger(o.log)}
		if o.historyLimit != nil {
			engineOpts = append(engineOpts, history.WithLimit(*o.historyLimit))
		}
		if o.noHistory {
			engineOpts = append(engineOpts, history.WithDisabled())
		}
		s.engine = history.NewEngine(s.rt, engineOpts...)
		s.ownsEngine = true
	}

	contents := map[string]any{}
	if o.storage != nil {
		stored, err := o.storage.Read(o.source)
		if err != nil {
			s.log.WithError(err).WithField("source", o.source).Warn("Could not read storage, starting empty")
			stored = map[string]any{}
		}
		for k, v := range stored {
			contents[k] = v
		}
		if c, ok := o.storage.(io.Closer); ok {
			s.closers = append(s.closers, c)
		}
	}
	for k, v := range initial {
		contents[k] = v
	}

	keys := make([]string, 0, len(contents))
	for k := range contents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := s.create(k, contents[k]); err != nil {
			s.Close()
			return nil, err
		}
	}

	if o.storage != nil {
		s.Register(o.storage, o.source)
	}
	if o.stateLog != nil {
		s.stateLimit = *o.stateLog
		s.Schedule(func(st *Store) { st.recordState() })
	}
	return s, nil
}

// Runtime returns the store's observable runtime.
func (s *Store) Runtime() *observable.Runtime { return s.rt }

// Engine returns the store's history engine.
func (s *Store) Engine() *history.Engine { return s.engine }

// Get returns the container stored under key.
func (s *Store) Get(key string) (observable.Container, error) {
	c, ok := s.values[key]
	if !ok {
		return nil, errors.UnknownKey(key)
	}
	return c, nil
}

// Has reports whether key exists.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in creation order.
func (s *Store) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Sequence returns the sequence under key, creating an empty one if the key
// does not exist yet.
func (s *Store) Sequence(key string) (*observable.Sequence, error) {
	c, ok := s.values[key]
	if !ok {
		created, err := s.create(key, []any{})
		if err != nil {
			return nil, err
		}
		c = created
	}
	seq, ok := c.(*observable.Sequence)
	if !ok {
		return nil, kindMismatch(key, c, observable.KindSequence)
	}
	return seq, nil
}

// Map returns the map under key.
func (s *Store) Map(key string) (*observable.Map, error) {
	c, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	m, ok := c.(*observable.Map)
	if !ok {
		return nil, kindMismatch(key, c, observable.KindMap)
	}
	return m, nil
}

// Record returns the record under key.
func (s *Store) Record(key string) (*observable.Record, error) {
	c, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	r, ok := c.(*observable.Record)
	if !ok {
		return nil, kindMismatch(key, c, observable.KindRecord)
	}
	return r, nil
}

// Set stores value under key. An existing value of the same kind has its
// contents replaced as one undoable step; a value of another kind is
// rejected.
func (s *Store) Set(key string, value any) error {
	c, ok := s.values[key]
	if !ok {
		_, err := s.create(key, value)
		return err
	}

	kind, plain, err := classify(key, value)
	if err != nil {
		return err
	}
	if kind != c.Kind() {
		return errors.InvalidTopLevelValue(key, value).
			WithDetail("expected", c.Kind().String())
	}

	switch target := c.(type) {
	case *observable.Sequence:
		target.Replace(plain.([]any))
	case *observable.Map:
		s.rt.RunInAction(key, func() { target.Replace(plain.(map[string]any)) })
	case *observable.Record:
		s.rt.RunInAction(key, func() { target.Replace(plain.(map[string]any)) })
	}
	return nil
}

// Delete removes key and its history.
func (s *Store) Delete(key string) error {
	if _, ok := s.values[key]; !ok {
		return errors.UnknownKey(key)
	}
	delete(s.values, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.engine.Untrack(key)
	s.rt.ReportChanged()
	s.log.WithField("key", key).Debug("Deleted key")
	return nil
}

// Undo reverts the latest entry recorded for key, a store key or an
// action name.
func (s *Store) Undo(key string) error { return s.engine.Undo(key) }

// Redo re-applies the latest undone entry for key.
func (s *Store) Redo(key string) error { return s.engine.Redo(key) }

// CanUndo reports whether key has anything to undo.
func (s *Store) CanUndo(key string) bool { return s.engine.CanUndo(key) }

// CanRedo reports whether key has anything to redo.
func (s *Store) CanRedo(key string) bool { return s.engine.CanRedo(key) }

// RunInAction runs fn as an action named name. Every change it makes is
// undone and redone together under that name.
func (s *Store) RunInAction(name string, fn func()) {
	s.rt.RunInAction(name, fn)
}

// Contents returns a deep copy of every value as plain data.
func (s *Store) Contents() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, c := range s.values {
		out[k] = c.Snapshot()
	}
	return out
}

// Decode copies the value under key into target, which must be a pointer.
// Struct fields are matched by their json tags.
func (s *Store) Decode(key string, target any) error {
	c, err := s.Get(key)
	if err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create decoder")
	}
	if err := decoder.Decode(c.Snapshot()); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to decode value").
			WithDetail("key", key)
	}
	return nil
}

// Query runs steps over a snapshot of the value under key.
func (s *Store) Query(key string, steps ...chain.Step) (any, error) {
	c, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return chain.Apply(c, steps...)
}

// Collection wraps the sequence under key, creating it if needed.
func (s *Store) Collection(key string) (*chain.Collection, error) {
	seq, err := s.Sequence(key)
	if err != nil {
		return nil, err
	}
	return chain.NewCollection(seq), nil
}

// Schedule runs fn now and again after every batch of changes.
func (s *Store) Schedule(fn func(*Store)) observable.Disposer {
	d := s.rt.Autorun(func() { fn(s) })
	s.disposers = append(s.disposers, d)
	return d
}

// Register writes the contents to dest now and after every batch of
// changes. Write failures are logged.
func (s *Store) Register(w persist.Writer, dest string) observable.Disposer {
	return s.Schedule(func(st *Store) {
		if err := w.Write(dest, st.Contents()); err != nil {
			st.log.WithError(err).WithField("dest", dest).Error("Failed to persist store")
		}
	})
}

func (s *Store) recordState() {
	s.states = append(s.states, s.Contents())
	if s.stateLimit > 0 && len(s.states) > s.stateLimit {
		s.states = s.states[len(s.states)-s.stateLimit:]
	}
}

// States returns copies of the snapshots kept by WithStateLog, oldest
// first. It is nil when the store was created without a state log.
func (s *Store) States() []map[string]any {
	if s.states == nil {
		return nil
	}
	out := make([]map[string]any, len(s.states))
	for i, state := range s.states {
		out[i] = observable.Clone(state).(map[string]any)
	}
	return out
}

// Close disposes scheduled reactions, detaches history if the store owns
// its engine and closes storage.
func (s *Store) Close() error {
	for _, d := range s.disposers {
		d()
	}
	s.disposers = nil
	if s.ownsEngine {
		s.engine.Close()
	}
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func (s *Store) create(key string, value any) (observable.Container, error) {
	kind, plain, err := classify(key, value)
	if err != nil {
		return nil, err
	}

	var c observable.Container
	switch kind {
	case observable.KindSequence:
		c = s.rt.NewSequence(key, plain.([]any))
	case observable.KindMap:
		c = s.rt.NewMap(key, plain.(map[string]any))
	case observable.KindRecord:
		c = s.rt.NewRecord(key, plain.(map[string]any))
	}
	if err := s.engine.Track(key, c); err != nil {
		return nil, err
	}
	s.values[key] = c
	s.order = append(s.order, key)
	s.log.WithFields(logrus.Fields{"key": key, "kind": kind.String()}).Debug("Created key")
	s.rt.ReportChanged()
	return c, nil
}

// classify returns the container kind for a top-level value together with
// its plain, deep-copied form.
func classify(key string, value any) (observable.Kind, any, error) {
	if rec, ok := value.(RecordFields); ok {
		plain := observable.Clone(observable.Plain(map[string]any(rec)))
		if plain == nil {
			plain = map[string]any{}
		}
		return observable.KindRecord, plain, nil
	}

	switch plain := observable.Clone(observable.Plain(value)).(type) {
	case []any:
		if plain == nil {
			plain = []any{}
		}
		return observable.KindSequence, plain, nil
	case map[string]any:
		if plain == nil {
			plain = map[string]any{}
		}
		return observable.KindMap, plain, nil
	default:
		return 0, nil, errors.InvalidTopLevelValue(key, value)
	}
}

func kindMismatch(key string, c observable.Container, want observable.Kind) error {
	return errors.InvalidTopLevelValue(key, c.Snapshot()).
		WithDetail("expected", want.String()).
		WithDetail("actual", c.Kind().String())
}
