// Command routekit-demo serves the search params demo and inspects its
// route tree offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "routekit-demo",
		Short:   "Server-rendered router demo with validated search params",
		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCmd(),
		routesCmd(),
		resolveCmd(),
	)
	return root
}
