package client

import (
	"context"
	"fmt"

	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/spf13/cobra"
)

func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage document tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <tag>...",
		Short: "Add tags that do not exist yet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				unseen := a.Taxonomy.UnseenTags(args)
				if err := a.Taxonomy.AddTags(ctx, args); err != nil {
					return err
				}
				fmt.Printf("Added %d new tags\n", len(unseen))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, name := range a.Taxonomy.Tags().Names {
					fmt.Println(name)
				}
				return nil
			})
		},
	})

	return cmd
}
