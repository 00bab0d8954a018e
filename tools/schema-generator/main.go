// Command schema-generator writes the JSON Schema reflected from
// config.Config, for editors and for reviewing changes to the embedded
// validation schema.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/grovetools/kvstore/config"
	"github.com/grovetools/kvstore/logging"
)

func main() {
	outputPath := flag.String("out", "schema/kvstore.schema.json", "where to write the schema")
	flag.Parse()

	log := logging.NewLogger("schema-generator")

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.WithError(err).Fatal("Error generating schema")
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.WithError(err).Fatal("Error creating schema directory")
	}
	if err := os.WriteFile(*outputPath, append(schemaBytes, '\n'), 0o644); err != nil {
		log.WithError(err).Fatal("Error writing schema file")
	}

	log.WithField("path", *outputPath).Info("Generated config schema")
}
