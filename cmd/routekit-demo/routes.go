package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/app"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

func demoTree() (*routekit.RouteTree, error) {
	return routekit.NewRouteTree(app.Routes(logger.NewNope(), app.Content()))
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route tree and the paths it serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := demoTree()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROUTE\tPATH\tFEATURES")
			for _, r := range tree.Routes() {
				path := r.Path()
				if path == "" {
					path = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID(), path, features(r))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nserved paths: %s\n", strings.Join(tree.Paths(), ", "))
			return nil
		},
	}
}

func features(r *routekit.Route) string {
	var f []string
	if r.HasValidator() {
		f = append(f, "validate")
	}
	if r.HasLoader() {
		f = append(f, "loader")
	}
	if r.HasComponent() {
		f = append(f, "view")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}
