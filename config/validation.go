package config

import (
	"fmt"

	"github.com/grovetools/kvstore/errors"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HistoryLimit < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("history_limit must not be negative, got %d", c.HistoryLimit)).
			WithDetail("history_limit", c.HistoryLimit)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Path == "" {
			return errors.ConfigInvalid("storage.path is required for the file driver")
		}
	case DriverBadger:
		if c.Storage.Path == "" && !c.Storage.InMemory {
			return errors.ConfigInvalid("storage.path is required for the badger driver unless in_memory is set")
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown storage driver '%s'", c.Storage.Driver)).
			WithDetail("driver", c.Storage.Driver)
	}

	return nil
}
