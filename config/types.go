package config

import (
	"fmt"

	"github.com/grovetools/kvstore/logging"
	"github.com/mitchellh/mapstructure"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBadger = "badger"
)

// Config is the configuration of a store, usually read from kvstore.yml or
// kvstore.toml.
type Config struct {
	Version string `yaml:"version" mapstructure:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`

	// HistoryLimit caps the undo history of every key. 0 means unbounded.
	HistoryLimit int `yaml:"history_limit" mapstructure:"history_limit" env:"KVSTORE_HISTORY_LIMIT" jsonschema:"minimum=0,description=Maximum undo entries per key (0 = unbounded)"`

	// NoHistory disables undo/redo entirely.
	NoHistory bool `yaml:"no_history" mapstructure:"no_history" env:"KVSTORE_NO_HISTORY" jsonschema:"description=Disable undo/redo history"`

	Storage StorageConfig  `yaml:"storage" mapstructure:"storage" jsonschema:"description=Where the store is persisted"`
	Logging logging.Config `yaml:"logging" mapstructure:"logging" jsonschema:"description=Logging configuration"`

	// Extensions holds every top-level section not known to kvstore.
	Extensions map[string]interface{} `yaml:"-" mapstructure:",remain" jsonschema:"-"`
}

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	// Driver is one of "memory", "file" or "badger".
	Driver string `yaml:"driver" mapstructure:"driver" env:"KVSTORE_STORAGE_DRIVER" jsonschema:"enum=memory,enum=file,enum=badger"`
	// Path is the data file for the file driver and the database directory
	// for the badger driver.
	Path string `yaml:"path,omitempty" mapstructure:"path" env:"KVSTORE_STORAGE_PATH"`
	// Source is the key the store is saved under in a badger database.
	Source string `yaml:"source,omitempty" mapstructure:"source" env:"KVSTORE_STORAGE_SOURCE"`
	// InMemory keeps a badger database in memory only.
	InMemory bool `yaml:"in_memory,omitempty" mapstructure:"in_memory"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Storage.Driver == DriverBadger && c.Storage.Source == "" {
		c.Storage.Source = "kvstore"
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var syncCfg myapp.SyncConfig
//	err := cfg.UnmarshalExtension("sync", &syncCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
