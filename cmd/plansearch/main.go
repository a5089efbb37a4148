package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/plansearch/internal/interfaces/cli/index"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/migrate"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/provider"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/server"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/worker"
	"github.com/orris-inc/plansearch/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "plansearch",
		Short:        "Plansearch - plan availability search",
		Long:         `Plansearch ingests provider plan feeds into a redis interval index and answers date window searches over HTTP.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		provider.NewCommand(),
		index.NewCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
