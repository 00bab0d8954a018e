package cli

import (
	"fmt"

	"github.com/grovetools/kvstore/config"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates a command that prints the JSON Schema of the
// configuration file.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for kvstore.yml",
		Long:  `Outputs the JSON Schema describing kvstore.yml and kvstore.toml, for editor completion and validation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
