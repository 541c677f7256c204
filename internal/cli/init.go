package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/paddock/internal/config"
	"github.com/example/paddock/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and create the SQLite schema",
		Long: `Write .paddock/config.yaml in the current directory with default settings
and, for the sqlite driver, create the database with the required schema.

An existing config is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			path := config.Path(dir)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s (use --force to overwrite)\n", path)
			} else {
				cfg, err := config.Default()
				if err != nil {
					return err
				}
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Wrote %s\n", path)
			}

			cfg, err := config.Load(dir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Store.Driver != config.DriverSQLite {
				fmt.Fprintf(out, "Store driver is %s; the schema is migrated on first start.\n", cfg.Store.Driver)
				return nil
			}

			database, err := db.OpenSQLite(cfg.Store.SQLitePath)
			if err != nil {
				return err
			}
			defer database.Close()

			fmt.Fprintf(out, "✓ Database initialized at %s\n", cfg.Store.SQLitePath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  paddock roster category add \"Formula 4\"")
			fmt.Fprintln(out, "  paddock standings <category-id>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
