package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/pkg/search"
)

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path> [query]",
		Short: "Run the search pipeline for a path offline",
		Long: `Resolve a navigation from an empty search to <path>, applying the
query as the update, and print the validated search or the rejected fields.`,
		Example: `  routekit-demo resolve /test 'foo=bar&filters.nested=x'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := demoTree()
			if err != nil {
				return err
			}

			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			query, err := search.ParseQuery(raw)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			out := cmd.OutOrStdout()
			m, err := tree.Resolve(routekit.Location{}, args[0], search.Set(query))
			if ne := routekit.AsNavigationError(err); ne != nil {
				fmt.Fprintf(out, "rejected by %s\n", ne.RouteID)
				for _, ve := range ne.ValidationErrors() {
					fmt.Fprintf(out, "  %s: %s\n", ve.Field, ve.Message)
				}
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "route: %s\nhref:  %s\nkeys:  %s\n",
				m.Leaf().ID(), m.Location.Href(), strings.Join(m.Location.Search.Keys(), ", "))
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(m.Location.Search)
		},
	}
}
