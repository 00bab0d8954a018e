package persist

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/logging"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// File stores contents in files named by the source. The encoding follows
// the extension: .yaml and .yml use YAML, .toml uses TOML, anything else JSON.
type File struct {
	log *logrus.Entry
}

// NewFile returns a file adapter. A nil logger uses the package logger.
func NewFile(log *logrus.Entry) *File {
	if log == nil {
		log = logging.NewLogger("persist")
	}
	return &File{log: log}
}

// Read loads the file at source. Missing, empty or unparsable files read as
// empty contents.
func (f *File) Read(source string) (map[string]any, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.WithError(err).WithField("source", source).Warn("Could not read storage file")
		}
		return map[string]any{}, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	contents := map[string]any{}
	switch formatOf(source) {
	case "yaml":
		err = yaml.Unmarshal(data, &contents)
	case "toml":
		err = toml.Unmarshal(data, &contents)
	default:
		err = json.Unmarshal(data, &contents)
	}
	if err != nil {
		f.log.WithError(err).WithField("source", source).Warn("Ignoring unparsable storage file")
		return map[string]any{}, nil
	}
	return normalizeContents(contents), nil
}

// Write encodes contents and writes them to dest, creating parent
// directories as needed.
func (f *File) Write(dest string, contents map[string]any) error {
	var (
		data []byte
		err  error
	)
	switch formatOf(dest) {
	case "yaml":
		data, err = yaml.Marshal(contents)
	case "toml":
		data, err = toml.Marshal(contents)
	default:
		data, err = json.MarshalIndent(contents, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.StorageWrite(dest, err)
	}

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.StorageWrite(dest, err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return errors.StorageWrite(dest, err)
	}
	f.log.WithField("dest", dest).Debug("Wrote storage file")
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
