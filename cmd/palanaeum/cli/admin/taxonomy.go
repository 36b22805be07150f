package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/mwantia/palanaeum/internal/taxonomy"
	"github.com/spf13/cobra"
)

func NewTaxonomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Manage categories, disciplines and level3 subcategories",
	}

	cmd.AddCommand(newTaxonomyListCommand())
	cmd.AddCommand(newTaxonomySeedCommand())
	cmd.AddCommand(newTaxonomyAddCommand("add-category", "Add a document category", (*taxonomy.Store).AddCategory))
	cmd.AddCommand(newTaxonomyAddCommand("add-discipline", "Add a discipline", (*taxonomy.Store).AddDiscipline))
	cmd.AddCommand(newLevel3AddCommand())
	cmd.AddCommand(newLevel3ListCommand())

	return cmd
}

func printVocabulary(title string, v taxonomy.Vocabulary) {
	fmt.Printf("%s (%d):\n", title, v.Len())
	for _, name := range v.Names {
		fmt.Printf("  %4d  %s\n", v.NameToID[name], name)
	}
}

func newTaxonomyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and disciplines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				printVocabulary("Categories", a.Taxonomy.Categories())
				printVocabulary("Disciplines", a.Taxonomy.Disciplines())
				return nil
			})
		},
	}
}

func newTaxonomySeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the configured categories and disciplines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				cfg := a.Config().Taxonomy
				if err := a.Taxonomy.Seed(ctx, cfg.Categories, cfg.Disciplines); err != nil {
					return err
				}
				fmt.Printf("Seeded %d categories and %d disciplines\n",
					a.Taxonomy.Categories().Len(), a.Taxonomy.Disciplines().Len())
				return nil
			})
		},
	}
}

func newTaxonomyAddCommand(use, short string, add func(*taxonomy.Store, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				return add(a.Taxonomy, ctx, strings.TrimSpace(args[0]))
			})
		},
	}
}

func newLevel3AddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-level3 <category> <discipline> <name>",
		Short: "Add a subcategory scoped to one category and discipline",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				id, err := a.Taxonomy.InsertLevel3(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Printf("Added level3 %d '%s'\n", id, args[2])
				return nil
			})
		},
	}
}

func newLevel3ListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "level3 <category> <discipline>",
		Short: "List the subcategories of a category and discipline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				categoryID, disciplineID, err := a.Taxonomy.Resolve(args[0], args[1])
				if err != nil {
					return err
				}
				v, err := a.Taxonomy.Level3(ctx, categoryID, disciplineID)
				if err != nil {
					return err
				}
				printVocabulary("Level3", v)
				return nil
			})
		},
	}
}
