package cmd

import (
	"fmt"

	"github.com/grovetools/kvstore/cli"
	"github.com/spf13/cobra"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Shows the configuration the other commands run with, after the
config file, ${VAR} expansion, KVSTORE_* environment overrides and defaults
have been applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cli.GetOptions(cmd).JSONOutput {
				source := path
				if source == "" {
					source = "(defaults)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n", source)
			}
			return printValue(cmd, cfg)
		},
	}
	return cmd
}
