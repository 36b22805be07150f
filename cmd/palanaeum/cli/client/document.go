package client

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/palanaeum/cmd/palanaeum/cli"
	"github.com/mwantia/palanaeum/internal/app"
	"github.com/mwantia/palanaeum/internal/catalog"
	"github.com/mwantia/palanaeum/internal/search"
	"github.com/spf13/cobra"
)

func NewDocumentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Catalogue, search and open reference documents",
	}

	cmd.AddCommand(newDocumentAddCommand())
	cmd.AddCommand(newDocumentSearchCommand())
	cmd.AddCommand(newDocumentShowCommand())
	cmd.AddCommand(newDocumentTagsCommand())
	cmd.AddCommand(newDocumentOpenPathCommand())

	return cmd
}

func parseDocumentID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q", arg)
	}
	return uint(id), nil
}

func newDocumentAddCommand() *cobra.Command {
	var (
		title      string
		category   string
		discipline string
		tags       []string
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Copy a file into the document archive and catalogue it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				info, err := os.Stat(args[0])
				if err != nil {
					return err
				}

				id, err := a.Catalog.InsertDocument(ctx, catalog.NewDocument{
					SourcePath: args[0],
					Title:      title,
					Category:   category,
					Discipline: discipline,
					Level3:     cli.Optional(cmd, "level3"),
					Tags:       tags,
					User:       a.Config().User,
				})
				if err != nil {
					return err
				}

				fmt.Printf("Added document %d (%s)\n", id, humanize.Bytes(uint64(info.Size())))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&category, "category", "", "document category (required)")
	cmd.Flags().StringVar(&discipline, "discipline", "", "document discipline (required)")
	cmd.Flags().String("level3", "", "subcategory within category and discipline")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach, may be repeated")

	return cmd
}

func newDocumentSearchCommand() *cobra.Command {
	var (
		categories  []string
		disciplines []string
		fields      []string
	)

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search documents by file name or title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				q := search.Query{Text: args[0]}

				for _, name := range categories {
					id, err := a.Taxonomy.CategoryID(name)
					if err != nil {
						return err
					}
					q.Categories = append(q.Categories, id)
				}
				for _, name := range disciplines {
					id, err := a.Taxonomy.DisciplineID(name)
					if err != nil {
						return err
					}
					q.Disciplines = append(q.Disciplines, id)
				}
				for _, f := range fields {
					field, err := search.ParseField(f)
					if err != nil {
						return err
					}
					q.SearchIn = append(q.SearchIn, field)
				}

				result, err := a.Searcher.Search(ctx, q)
				if err != nil {
					return err
				}
				if result == nil {
					return nil
				}

				fmt.Printf("Results for '%s': %d\n", result.Text, len(result.Rows))
				for _, row := range result.Rows {
					category, _ := a.Taxonomy.CategoryName(row.CategoryID)
					discipline, _ := a.Taxonomy.DisciplineName(row.DisciplineID)
					fmt.Printf("%5d  %-30s %-30s %s / %s\n", row.ID, row.FileName, row.Title, category, discipline)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "restrict to category, may be repeated")
	cmd.Flags().StringSliceVar(&disciplines, "discipline", nil, "restrict to discipline, may be repeated")
	cmd.Flags().StringSliceVar(&fields, "in", []string{"file_name", "title"}, "fields to match (file_name, title)")

	return cmd
}

func newDocumentShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a catalogued document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				doc, err := a.Catalog.Get(ctx, id)
				if err != nil {
					return err
				}
				tags, err := a.Catalog.DocumentTags(ctx, id)
				if err != nil {
					return err
				}
				path, err := a.Catalog.DocumentPath(ctx, id)
				if err != nil {
					return err
				}

				fmt.Printf("Document %d\n", doc.ID)
				fmt.Printf("  File:   %s\n", doc.FileName)
				fmt.Printf("  Title:  %s\n", doc.Title)
				fmt.Printf("  Path:   %s\n", path)
				fmt.Printf("  Tags:   %v\n", tags)
				fmt.Printf("  Added:  %s by %s\n", humanize.Time(time.Unix(doc.TimeAdded, 0)), doc.User)
				return nil
			})
		},
	}
}

func newDocumentTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <id>",
		Short: "List the tags of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				tags, err := a.Catalog.DocumentTags(ctx, id)
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Println(t)
				}
				return nil
			})
		},
	}
}

func newDocumentOpenPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open-path <id>",
		Short: "Print the quoted archive path of a document for the platform open command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}
			return cli.RunWithApp(cmd, func(ctx context.Context, a *app.App) error {
				path, err := a.Catalog.OpenPath(ctx, id)
				if err != nil {
					return err
				}
				fmt.Println(path)
				return nil
			})
		},
	}
}
