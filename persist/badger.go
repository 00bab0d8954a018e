package persist

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/logging"
	"github.com/sirupsen/logrus"
)

// BadgerConfig holds configuration for a badger-backed adapter.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps the database in memory only. Useful for tests.
	InMemory bool

	// SyncWrites makes every write durable before returning.
	SyncWrites bool

	// Logger receives badger's own log output. Nil silences it.
	Logger *logrus.Entry
}

// Badger stores each source as a JSON document under its own key, the way
// browser local storage keeps one string per key.
type Badger struct {
	db  *badger.DB
	log *logrus.Entry
}

// OpenBadger opens the database described by cfg.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, errors.StorageRead(cfg.Path, fmt.Errorf("create database directory: %w", err))
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	log := cfg.Logger
	if log != nil {
		opts = opts.WithLogger(log)
	} else {
		opts = opts.WithLogger(nil)
		log = logging.NewLogger("persist")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.StorageRead(cfg.Path, fmt.Errorf("open badger database: %w", err))
	}
	return &Badger{db: db, log: log}, nil
}

// Read returns the document saved under source. A missing key is
// initialised to an empty document; a corrupt one reads as empty.
func (b *Badger) Read(source string) (map[string]any, error) {
	contents := map[string]any{}
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(source))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set([]byte(source), []byte("{}"))
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &contents); err != nil {
				b.log.WithError(err).WithField("source", source).Warn("Ignoring unparsable stored document")
				contents = map[string]any{}
			}
			return nil
		})
	})
	if err != nil {
		b.log.WithError(err).WithField("source", source).Warn("Could not read stored document")
		return map[string]any{}, nil
	}
	return normalizeContents(contents), nil
}

// Write saves contents as JSON under dest.
func (b *Badger) Write(dest string, contents map[string]any) error {
	data, err := json.Marshal(contents)
	if err != nil {
		return errors.StorageWrite(dest, err)
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dest), data)
	}); err != nil {
		return errors.StorageWrite(dest, err)
	}
	return nil
}

// Sources lists every key in the database.
func (b *Badger) Sources() ([]string, error) {
	var sources []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			sources = append(sources, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, errors.StorageRead("", err)
	}
	return sources, nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}
