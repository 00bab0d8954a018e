// Package persist holds the storage collaborators a store reads its initial
// contents from and writes its contents to.
package persist

import (
	"fmt"

	"github.com/grovetools/kvstore/config"
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/observable"
	"github.com/sirupsen/logrus"
)

// Reader loads the contents saved under source.
type Reader interface {
	Read(source string) (map[string]any, error)
}

// Writer saves contents under dest.
type Writer interface {
	Write(dest string, contents map[string]any) error
}

// Adapter is a storage backend that can both read and write.
type Adapter interface {
	Reader
	Writer
}

// Open builds the adapter selected by cfg and returns it together with the
// source the store should be read from and written to.
func Open(cfg config.StorageConfig, log *logrus.Entry) (Adapter, string, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		return NewMemory(), "kvstore", nil
	case config.DriverFile:
		return NewFile(log), cfg.Path, nil
	case config.DriverBadger:
		db, err := OpenBadger(BadgerConfig{
			Path:       cfg.Path,
			InMemory:   cfg.InMemory,
			SyncWrites: true,
			Logger:     log,
		})
		if err != nil {
			return nil, "", err
		}
		source := cfg.Source
		if source == "" {
			source = "kvstore"
		}
		return db, source, nil
	default:
		return nil, "", errors.ConfigInvalid(fmt.Sprintf("unknown storage driver '%s'", cfg.Driver)).
			WithDetail("driver", cfg.Driver)
	}
}

// Normalize converts decoded data into plain values: []any, map[string]any
// and scalars. Maps with non-string keys have their keys formatted.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return observable.Plain(v)
	}
}

func normalizeContents(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return Normalize(m).(map[string]any)
}
