package store

import (
	"github.com/grovetools/kvstore/config"
	"github.com/grovetools/kvstore/history"
	"github.com/grovetools/kvstore/persist"
	"github.com/sirupsen/logrus"
)

type options struct {
	historyLimit *int
	noHistory    bool
	cfg          *config.Config
	engine       *history.Engine
	storage      persist.Adapter
	source       string
	log          *logrus.Entry
	stateLog     *int
}

// Option configures a Store.
type Option func(*options)

// WithHistoryLimit caps every key's undo history at n entries.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = &n }
}

// WithNoHistory disables undo and redo.
func WithNoHistory() Option {
	return func(o *options) { o.noHistory = true }
}

// WithConfig applies a loaded configuration. Explicit options win over it.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithEngine shares an existing history engine, and its runtime, with the
// store. The history options are then ignored.
func WithEngine(e *history.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithStorage reads the initial contents from source and writes every
// change back to it.
func WithStorage(adapter persist.Adapter, source string) Option {
	return func(o *options) {
		o.storage = adapter
		o.source = source
	}
}

// WithLogger sets the logger used by the store and its engine.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithStateLog keeps a snapshot of the contents after every batch of
// changes. A positive limit keeps only the newest limit snapshots.
func WithStateLog(limit int) Option {
	return func(o *options) { o.stateLog = &limit }
}
