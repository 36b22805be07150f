package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/spf13/cobra"
)

func NewNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Add and read part notes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <num> <rev> <text>...",
		Short: "Append a note to a part",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[2:], " ")
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				added, err := a.Parts.AddNote(ctx, partRef(args[0], args[1]), a.Config().User, text)
				if err != nil {
					return err
				}
				if !added {
					fmt.Println("Empty note ignored")
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <num> <rev>",
		Short: "List the notes of a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				notes, err := a.Parts.ListNotes(ctx, partRef(args[0], args[1]))
				if err != nil {
					return err
				}
				for _, n := range notes {
					fmt.Printf("%s  %s (%s)\n    %s\n",
						n.Date.Format("2006-01-02"), n.Author, humanize.Time(n.Date), n.Note)
				}
				return nil
			})
		},
	})

	return cmd
}
