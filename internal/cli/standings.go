package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/wire"
)

// StandingsCmd returns the standings command
func StandingsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "standings <category-id>",
		Short: "Show competitor and team standings of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.StandingsAdapter(cmd.OutOrStdout()).Show(ctx, args[0], asJSON)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	return cmd
}
