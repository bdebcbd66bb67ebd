package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	cmd := &cobra.Command{
		Use:           "socialgraph",
		Short:         "Social graph and feed API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		// running the binary without a subcommand serves the API
		RunE: serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCommand())
	return cmd
}
