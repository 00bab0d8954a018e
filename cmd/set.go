package cmd

import (
	"github.com/grovetools/kvstore/store"
	"github.com/spf13/cobra"
)

func NewSetCmd() *cobra.Command {
	var asRecord bool

	cmd := &cobra.Command{
		Use:   "set <key> <json>",
		Short: "Store a list or an object under a key",
		Long: `Stores a JSON list or object under a key. An existing value of the
same kind has its contents replaced.`,
		Example: `  kvstore set todos '["write docs"]'
  kvstore set settings '{"theme": "dark"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := parseValue(args[1])
			if m, ok := value.(map[string]any); ok && asRecord {
				value = store.AsRecord(m)
			}
			return withStore(cmd, func(s *store.Store) error {
				return s.Set(args[0], value)
			})
		},
	}
	cmd.Flags().BoolVar(&asRecord, "record", false, "Store an object as a record")
	return cmd
}

func NewPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "push <key> <json>...",
		Short:   "Append values to a list, creating it if needed",
		Example: `  kvstore push todos '{"title": "ship it", "done": false}'`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				values = append(values, parseValue(arg))
			}
			return withStore(cmd, func(s *store.Store) error {
				col, err := s.Collection(args[0])
				if err != nil {
					return err
				}
				col.Push(values...)
				return printValue(cmd, col.Len())
			})
		},
	}
}

func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *store.Store) error {
				return s.Delete(args[0])
			})
		},
	}
}
