package cmd

import (
	"github.com/grovetools/kvstore/store"
	"github.com/spf13/cobra"
)

func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				c, err := s.Get(args[0])
				if err != nil {
					return err
				}
				return printValue(cmd, c.Snapshot())
			})
		},
	}
}

func NewKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				keys := s.Keys()
				if keys == nil {
					keys = []string{}
				}
				return printValue(cmd, keys)
			})
		},
	}
}

func NewContentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contents",
		Short: "Print every stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				return printValue(cmd, s.Contents())
			})
		},
	}
}
