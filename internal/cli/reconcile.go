package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/wire"
)

// ReconcileCmd returns the reconcile command
func ReconcileCmd() *cobra.Command {
	var apply, asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Find penalties that do not have exactly one target",
		Long: `Scan penalties and their target links.

Reports penalties without a target, penalties with both a competitor and a
team target, and links pointing at missing penalties, competitors or teams.

With --apply, untargeted penalties and dangling links are deleted.
Double-targeted penalties are only reported; fix them with
'paddock penalty update <id> --competitor C' or '--team T'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.ReconcileAdapter(cmd.OutOrStdout()).Run(ctx, apply, asJSON)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Delete untargeted penalties and dangling links")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
