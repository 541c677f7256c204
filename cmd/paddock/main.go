package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/cli"
	"github.com/example/paddock/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "paddock",
		Short:   "paddock - results and penalty aggregation for racing leagues",
		Version: version.String(),
		Long: `paddock computes category standings from race results and attributes
penalties to teams, either directly or through the team a competitor drove for.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StandingsCmd())
	rootCmd.AddCommand(cli.PenaltyCmd())
	rootCmd.AddCommand(cli.ReconcileCmd())
	rootCmd.AddCommand(cli.RosterCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
