package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mwantia/palanaeum/internal/app"
	config "github.com/mwantia/palanaeum/internal/config"
	"github.com/spf13/cobra"
)

// RunWithApp loads the configuration, opens the catalog and runs fn until it returns or
// the process is interrupted.
func RunWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error, opts ...app.Option) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a, err := app.Open(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	return fn(ctx, a)
}

// Optional returns a pointer to the flag value, or nil when the flag was not set
func Optional(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}
