package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/grovetools/kvstore/cli"
	"github.com/grovetools/kvstore/config"
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/logging"
	"github.com/grovetools/kvstore/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadConfig resolves the configuration for a command. The CLI always
// persists, so the memory driver is swapped for the default data file.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := cli.LoadConfig(cli.GetOptions(cmd))
	if err != nil {
		return nil, "", err
	}
	if cfg.Storage.Driver == config.DriverMemory {
		cfg.Storage.Driver = config.DriverFile
		if cfg.Storage.Path == "" {
			cfg.Storage.Path = DefaultStoragePath
		}
	}
	logging.SetConfig(cfg.Logging)
	return cfg, path, nil
}

// withStore opens the configured store, runs fn and closes the store.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cli.GetLogger(cmd)
	log.WithField("config", path).WithField("driver", cfg.Storage.Driver).Debug("Opening store")

	s, err := store.New(nil, store.WithConfig(cfg), store.WithLogger(log))
	if err != nil {
		return err
	}
	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, errors.ErrCodeStorageWrite, "failed to close storage")
	}
	return runErr
}

// printValue writes v as YAML, or as JSON with --json.
func printValue(cmd *cobra.Command, v any) error {
	return writeValue(cmd.OutOrStdout(), v, cli.GetOptions(cmd).JSONOutput)
}

func writeValue(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// parseValue decodes a JSON argument. Anything that is not valid JSON is
// taken as a plain string.
func parseValue(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}
