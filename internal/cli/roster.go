package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/wire"
)

// RosterCmd returns the roster command
func RosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Maintain categories, races, competitors, teams and results",
	}

	category := &cobra.Command{Use: "category", Short: "Manage categories"}
	category.AddCommand(rosterCategoryAddCmd())

	race := &cobra.Command{Use: "race", Short: "Manage races"}
	race.AddCommand(rosterRaceAddCmd())

	competitor := &cobra.Command{Use: "competitor", Short: "Manage competitors"}
	competitor.AddCommand(rosterCompetitorAddCmd())
	competitor.AddCommand(rosterRemoveCmd("competitor", func(ctx context.Context, a rosterRemover, id string) error {
		return a.RemoveCompetitor(ctx, id)
	}))

	team := &cobra.Command{Use: "team", Short: "Manage teams"}
	team.AddCommand(rosterTeamAddCmd())
	team.AddCommand(rosterRemoveCmd("team", func(ctx context.Context, a rosterRemover, id string) error {
		return a.RemoveTeam(ctx, id)
	}))

	result := &cobra.Command{Use: "result", Short: "Record and retract race results"}
	result.AddCommand(rosterResultRecordCmd())
	result.AddCommand(rosterResultRetractCmd())

	cmd.AddCommand(category, race, competitor, team, result)
	return cmd
}

type rosterRemover interface {
	RemoveCompetitor(ctx context.Context, id string) error
	RemoveTeam(ctx context.Context, id string) error
}

func rosterCategoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.RosterAdapter(cmd.OutOrStdout()).AddCategory(ctx, args[0])
				return err
			})
		},
	}
}

func rosterRaceAddCmd() *cobra.Command {
	var req primary.AddRaceRequest

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a race to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.RosterAdapter(cmd.OutOrStdout()).AddRace(ctx, req)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.CategoryID, "category", "", "Category id (required)")
	cmd.Flags().StringVar(&req.Date, "date", "", "Date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&req.Place, "place", "", "Venue")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func rosterCompetitorAddCmd() *cobra.Command {
	var req primary.AddCompetitorRequest

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a competitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.RosterAdapter(cmd.OutOrStdout()).AddCompetitor(ctx, req)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.Nationality, "nationality", "", "Nationality code")
	cmd.Flags().StringVar(&req.BirthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
	cmd.Flags().StringVar(&req.PhotoRef, "photo", "", "Photo reference")
	return cmd
}

func rosterTeamAddCmd() *cobra.Command {
	var req primary.AddTeamRequest

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.RosterAdapter(cmd.OutOrStdout()).AddTeam(ctx, req)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.Color, "color", "", "Brand color, #RRGGBB")
	cmd.Flags().StringVar(&req.LogoRef, "logo", "", "Logo reference")
	return cmd
}

func rosterRemoveCmd(entity string, remove func(ctx context.Context, a rosterRemover, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a " + entity + " (deactivated while referenced)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return remove(ctx, c.RosterAdapter(cmd.OutOrStdout()), args[0])
			})
		},
	}
}

func rosterResultRecordCmd() *cobra.Command {
	var req primary.RecordResultRequest
	var points float64

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record or update the result of a competitor in a race",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("points") {
				req.Points = &points
			}
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				_, err := c.RosterAdapter(cmd.OutOrStdout()).RecordResult(ctx, req)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.CompetitorID, "competitor", "", "Competitor id (required)")
	cmd.Flags().StringVar(&req.RaceID, "race", "", "Race id (required)")
	cmd.Flags().StringVar(&req.TeamID, "team", "", "Team id (required)")
	cmd.Flags().Float64Var(&points, "points", 0, "Points scored; omit to leave unscored")
	_ = cmd.MarkFlagRequired("competitor")
	_ = cmd.MarkFlagRequired("race")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func rosterResultRetractCmd() *cobra.Command {
	var competitorID, raceID string

	cmd := &cobra.Command{
		Use:   "retract",
		Short: "Delete the result of a competitor in a race",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				return c.RosterAdapter(cmd.OutOrStdout()).RetractResult(ctx, competitorID, raceID)
			})
		},
	}

	cmd.Flags().StringVar(&competitorID, "competitor", "", "Competitor id (required)")
	cmd.Flags().StringVar(&raceID, "race", "", "Race id (required)")
	_ = cmd.MarkFlagRequired("competitor")
	_ = cmd.MarkFlagRequired("race")
	return cmd
}
