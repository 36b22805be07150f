package admin

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mwantia/palanaeum/internal/app"
	config "github.com/mwantia/palanaeum/internal/config"
	"github.com/mwantia/palanaeum/pkg/db/migrations"
	"github.com/mwantia/palanaeum/pkg/log"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				applied, err := m.Migrate(ctx)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Println("Catalog schema is up to date")
					return nil
				}
				for _, v := range applied {
					fmt.Printf("Applied migration %d\n", v)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Printf("%3d  %-8s %s\n", s.Version, state, s.Description)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *migrations.Migrator) error {
				status, err := m.Rollback(ctx)
				if err != nil {
					return err
				}
				if status == nil {
					fmt.Println("No migration to roll back")
					return nil
				}
				fmt.Printf("Rolled back migration %d (%s)\n", status.Version, status.Description)
				return nil
			})
		},
	})

	return cmd
}

// withMigrator opens the store without migrating it, so status reflects the file as is
func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *migrations.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	s, err := app.OpenStore(ctx, cfg, log.NewLoggerService("migrate", cfg.Log))
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, migrations.NewMigrator(s.DB()))
}
