package cmd

import (
	"github.com/grovetools/kvstore/cli"
	"github.com/spf13/cobra"
)

// DefaultStoragePath is the data file used when no storage is configured.
const DefaultStoragePath = "kvstore.json"

// NewRootCmd builds the kvstore command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"kvstore",
		"Inspect and edit a persisted key-value store",
	)
	cli.SetVersionTemplate(rootCmd)

	rootCmd.AddCommand(
		NewGetCmd(),
		NewSetCmd(),
		NewPushCmd(),
		NewDeleteCmd(),
		NewKeysCmd(),
		NewContentsCmd(),
		NewQueryCmd(),
		NewConfigCmd(),
		cli.NewSchemaCommand(),
		cli.NewVersionCommand("kvstore"),
	)
	return rootCmd
}
