package client

import (
	"context"
	"fmt"

	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/mwantia/palanaeum/internal/assembly"
	"github.com/mwantia/palanaeum/internal/parts"
	"github.com/spf13/cobra"
)

func partRef(num, rev string) assembly.Ref {
	return assembly.Ref{Num: num, Rev: rev}
}

func NewPartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "part",
		Short: "Register and edit parts",
	}

	cmd.AddCommand(newPartCreateCommand())
	cmd.AddCommand(newPartShowCommand())
	cmd.AddCommand(newPartSetCommand())
	cmd.AddCommand(newPartSetTypeCommand())
	cmd.AddCommand(newPartSetSuccessorCommand())

	return cmd
}

func newPartCreateCommand() *cobra.Command {
	var np parts.NewPart

	cmd := &cobra.Command{
		Use:   "create <num> <rev>",
		Short: "Register a part revision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			np.Ref = partRef(args[0], args[1])
			if t := cli.Optional(cmd, "type"); t != nil {
				partType, err := parts.ParsePartType(*t)
				if err != nil {
					return err
				}
				np.Type = &partType
			}

			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.Parts.Create(ctx, np); err != nil {
					return err
				}
				fmt.Printf("Created part %s\n", np.Ref)
				return nil
			})
		},
	}

	cmd.Flags().String("type", "", "part type (Assembly, Manufactured, Purchased)")
	cmd.Flags().StringVar(&np.Name, "name", "", "part name")
	cmd.Flags().StringVar(&np.Description, "description", "", "part description")
	cmd.Flags().StringVar(&np.Drawing, "drawing", "", "drawing reference")

	return cmd
}

func newPartShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <num> <rev>",
		Short: "Show a part with its assembly relations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := partRef(args[0], args[1])
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				part, err := a.Parts.Get(ctx, ref)
				if err != nil {
					return err
				}
				view, err := a.Graph.Open(ctx, ref)
				if err != nil {
					return err
				}

				fmt.Printf("Part %s\n", ref)
				fmt.Printf("  Type:        %s\n", parts.Display(part.PartType))
				fmt.Printf("  Name:        %s\n", parts.Display(part.Name))
				fmt.Printf("  Description: %s\n", parts.Display(part.Description))
				fmt.Printf("  Drawing:     %s\n", parts.Display(part.Drawing))
				fmt.Printf("  Mugshot:     %s\n", parts.Display(part.Mugshot))
				if part.SuccessorNum != nil && part.SuccessorRev != nil {
					fmt.Printf("  Successor:   %s\n", partRef(*part.SuccessorNum, *part.SuccessorRev))
				}
				fmt.Printf("  Parents:     %v\n", view.Parents.Labels())
				fmt.Printf("  Children:    %v\n", view.Children.Labels())
				return nil
			})
		},
	}
}

func newPartSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <num> <rev> <field> [value]",
		Short: "Edit name, description or drawing; an empty value clears the field",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := partRef(args[0], args[1])
			field, err := parts.ParseField(args[2])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 4 {
				value = args[3]
			}

			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				part, err := a.Parts.Get(ctx, ref)
				if err != nil {
					return err
				}

				display := parts.Display(field.Value(part))
				label := parts.LabelField(
					func() string { return display },
					func(s string) { display = s })

				previous := label.Current()
				if err := a.Parts.CommitField(ctx, ref, field, label, value); err != nil {
					return err
				}
				fmt.Printf("%s: %q -> %q\n", field, previous, display)
				return nil
			})
		},
	}
}

func newPartSetTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-type <num> <rev> <type>",
		Short: "Change the part type",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			partType, err := parts.ParsePartType(args[2])
			if err != nil {
				return err
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Parts.SetType(ctx, partRef(args[0], args[1]), partType)
			})
		},
	}
}

func newPartSetSuccessorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-successor <num> <rev> [<successor-num> <successor-rev>]",
		Short: "Record the revision that supersedes a part, or clear it",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 && len(args) != 4 {
				return fmt.Errorf("requires 2 or 4 arguments, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var successor *assembly.Ref
			if len(args) == 4 {
				ref := partRef(args[2], args[3])
				successor = &ref
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Parts.SetSuccessor(ctx, partRef(args[0], args[1]), successor)
			})
		},
	}
}
