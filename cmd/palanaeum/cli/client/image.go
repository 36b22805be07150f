package client

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/mwantia/palanaeum/internal/parts"
	"github.com/spf13/cobra"
)

func NewImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage part images and mugshots",
	}

	cmd.AddCommand(newImageAddCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <num> <rev> <image>",
		Short: "Remove an image from a part",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Parts.RemoveImage(ctx, partRef(args[0], args[1]), args[2])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "describe <num> <rev> <image> [description]",
		Short: "Set or clear the description of an image",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) == 4 {
				description = args[3]
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Parts.SetImageDescription(ctx, partRef(args[0], args[1]), args[2], description)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "mugshot <num> <rev> <image>",
		Short: "Use an image as the part's mugshot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Parts.SetMugshot(ctx, partRef(args[0], args[1]), args[2])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list <num> <rev>",
		Short: "List the images of a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := partRef(args[0], args[1])
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				images, err := a.Parts.ListImages(ctx, ref)
				if err != nil {
					return err
				}
				for _, img := range images {
					path, err := a.Parts.ImagePath(ref, img.Image)
					if err != nil {
						return err
					}
					fmt.Printf("%-40s %-12s %s\n", img.Image, humanize.Time(img.CreatedAt), parts.Display(img.Description))
					fmt.Printf("    %s\n", path)
				}
				return nil
			})
		},
	})

	return cmd
}

func newImageAddCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <num> <rev> <file>",
		Short: "Copy an image into the archive and attach it to a part",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				name, err := a.Parts.AddImage(ctx, partRef(args[0], args[1]), args[2], description)
				if err != nil {
					return err
				}
				fmt.Printf("Added image %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "image description")

	return cmd
}
