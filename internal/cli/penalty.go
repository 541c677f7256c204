package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/wire"
)

// PenaltyCmd returns the penalty command
func PenaltyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "penalty",
		Short: "Manage penalties",
		Long:  `Create, edit and list penalties. Every penalty targets one competitor or one team.`,
	}

	cmd.AddCommand(penaltyCreateCmd())
	cmd.AddCommand(penaltyUpdateCmd())
	cmd.AddCommand(penaltyUntargetCmd())
	cmd.AddCommand(penaltyDeleteCmd())
	cmd.AddCommand(penaltyShowCmd())
	cmd.AddCommand(penaltyListCmd())

	return cmd
}

// penaltyFlags holds the flags shared by create and update.
type penaltyFlags struct {
	data       primary.PenaltyData
	competitor string
	team       string
}

func (f *penaltyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data.RaceID, "race", "", "Race id (required)")
	cmd.Flags().StringVar(&f.data.Date, "date", "", "Date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&f.data.Time, "time", "", "Time, HH:MM")
	cmd.Flags().StringVar(&f.data.Kind, "kind", "", "Penalty kind (required)")
	cmd.Flags().StringVar(&f.data.Description, "description", "", "Free text")
	cmd.Flags().StringVar(&f.competitor, "competitor", "", "Target competitor id")
	cmd.Flags().StringVar(&f.team, "team", "", "Target team id")
	cmd.MarkFlagsMutuallyExclusive("competitor", "team")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("kind")
}

func (f *penaltyFlags) target() *primary.Target {
	switch {
	case f.competitor != "":
		return &primary.Target{Kind: primary.TargetKindCompetitor, ID: f.competitor}
	case f.team != "":
		return &primary.Target{Kind: primary.TargetKindTeam, ID: f.team}
	}
	return nil
}

func penaltyCreateCmd() *cobra.Command {
	var flags penaltyFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a penalty against a competitor or a team",
		Long: `Create a penalty with exactly one target.

Examples:
  paddock penalty create --race R1 --date 2024-03-01 --kind "track limits" --competitor C1
  paddock penalty create --race R1 --date 2024-03-01 --time 14:05 --kind "unsafe release" --team T1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := flags.target()
			if target == nil {
				return errors.New("one of --competitor or --team is required")
			}
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.PenaltyAdapter(cmd.OutOrStdout()).Create(ctx, primary.CreatePenaltyRequest{
					PenaltyData: flags.data,
					Target:      *target,
				})
				return err
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func penaltyUpdateCmd() *cobra.Command {
	var flags penaltyFlags

	cmd := &cobra.Command{
		Use:   "update <penalty-id>",
		Short: "Rewrite a penalty",
		Long: `Rewrite every field of a penalty.

With --competitor or --team the penalty is retargeted and keeps exactly one
link. Without either, only the competitor link is removed; a team link stays.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.PenaltyAdapter(cmd.OutOrStdout()).Update(ctx, primary.UpdatePenaltyRequest{
					PenaltyID:   args[0],
					PenaltyData: flags.data,
					Target:      flags.target(),
				})
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func penaltyUntargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untarget <penalty-id>",
		Short: "Remove the target of a penalty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.PenaltyAdapter(cmd.OutOrStdout()).Untarget(ctx, args[0])
			})
		},
	}
}

func penaltyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <penalty-id>",
		Short: "Delete a penalty and its target links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.PenaltyAdapter(cmd.OutOrStdout()).Delete(ctx, args[0])
			})
		},
	}
}

func penaltyShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <penalty-id>",
		Short: "Show a penalty and its target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.PenaltyAdapter(cmd.OutOrStdout()).Show(ctx, args[0], asJSON)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func penaltyListCmd() *cobra.Command {
	var asJSON, gaps bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List penalties grouped by team",
		Long: `List every team with the penalties attributed to it.

Team penalties are listed under their team. Competitor penalties are listed
under the team the competitor drove for in that race. Penalties that cannot
be attributed are left out; --gaps lists them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.PenaltyAdapter(cmd.OutOrStdout()).List(ctx, gaps, asJSON)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&gaps, "gaps", false, "Also list penalties that could not be attributed")
	return cmd
}
