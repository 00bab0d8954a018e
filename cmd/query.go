package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/kvstore/chain"
	"github.com/grovetools/kvstore/errors"
	"github.com/grovetools/kvstore/store"
	"github.com/spf13/cobra"
)

func NewQueryCmd() *cobra.Command {
	var (
		filters []string
		sortBy  string
		pluck   string
		take    int
		drop    int
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "query <key>",
		Short: "Filter, sort and slice the value under a key",
		Long: `Runs a read-only pipeline over the value stored under a key. Objects
are queried by their values, in key order. Steps run as: filter, sort,
reverse, drop, take, pluck.`,
		Example: `  kvstore query todos --filter done=false --sort title --take 5
  kvstore query users --filter role='"admin"' --pluck name`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := []chain.Step{chain.Values()}
			for _, f := range filters {
				field, raw, ok := strings.Cut(f, "=")
				if !ok || field == "" {
					return errors.New(errors.ErrCodeInvalidInput,
						fmt.Sprintf("invalid filter '%s', expected field=value", f))
				}
				steps = append(steps, chain.Filter(chain.Matches(map[string]any{field: parseValue(raw)})))
			}
			if sortBy != "" {
				steps = append(steps, chain.SortBy(sortBy))
			}
			if reverse {
				steps = append(steps, chain.Reverse())
			}
			if drop > 0 {
				steps = append(steps, chain.Drop(drop))
			}
			if take >= 0 {
				steps = append(steps, chain.Take(take))
			}
			if pluck != "" {
				steps = append(steps, chain.Pluck(pluck))
			}

			return withStore(cmd, func(s *store.Store) error {
				result, err := s.Query(args[0], steps...)
				if err != nil {
					return err
				}
				return printValue(cmd, result)
			})
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Keep elements whose field equals a JSON value (field=value)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort elements by field")
	cmd.Flags().StringVar(&pluck, "pluck", "", "Replace each element with one of its fields")
	cmd.Flags().IntVar(&take, "take", -1, "Keep at most n elements")
	cmd.Flags().IntVar(&drop, "drop", 0, "Skip the first n elements")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Reverse the order")
	return cmd
}
