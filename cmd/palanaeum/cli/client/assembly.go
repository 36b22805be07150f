package client

import (
	"context"
	"fmt"

	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/mwantia/palanaeum/internal/assembly"
	"github.com/spf13/cobra"
)

func NewAssemblyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assembly",
		Aliases: []string{"asm"},
		Short:   "Edit and inspect parent/child relations between parts",
	}

	cmd.AddCommand(newAssemblyAddCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <parent-num> <parent-rev> <child-num> <child-rev>",
		Short: "Remove a child from a parent",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Graph.RemoveChild(ctx, partRef(args[0], args[1]), partRef(args[2], args[3]))
			})
		},
	})
	cmd.AddCommand(newAssemblyListCommand("children", "List the children of a part", (*assembly.Graph).ListChildren))
	cmd.AddCommand(newAssemblyListCommand("parents", "List the parents of a part", (*assembly.Graph).ListParents))

	return cmd
}

func newAssemblyAddCommand() *cobra.Command {
	var cycleCheck bool

	cmd := &cobra.Command{
		Use:   "add <parent-num> <parent-rev> <child-num> <child-rev>",
		Short: "Add a child to a parent",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []app.Option
			if cycleCheck {
				opts = append(opts, app.WithCycleCheck())
			}

			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				parent, child := partRef(args[0], args[1]), partRef(args[2], args[3])
				result, err := a.Graph.AddChild(ctx, parent, child)
				if err != nil {
					return err
				}
				fmt.Printf("%s -> %s: %s\n", parent, child, result)
				return nil
			}, opts...)
		},
	}

	cmd.Flags().BoolVar(&cycleCheck, "cycle-check", false, "refuse edges that would create a cycle")

	return cmd
}

func newAssemblyListCommand(use, short string, list func(*assembly.Graph, context.Context, assembly.Ref) ([]assembly.Related, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <num> <rev>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				related, err := list(a.Graph, ctx, partRef(args[0], args[1]))
				if err != nil {
					return err
				}
				for _, r := range related {
					fmt.Println(r.Label())
				}
				return nil
			})
		},
	}
}
