package main

import (
	"context"

	"github.com/spf13/cobra"
)

// NewFilesCmd lists the files directly in a category.
func NewFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files [category]",
		Short: "List the files directly in a category",
		Long: `List the file pages that are direct members of a category.

Only the first page of results (commons.page_limit, at most 500) is listed.
Without an argument the configured harvest.category is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			pages, err := a.commons.CategoryFiles(ctx, a.categoryArg(args), a.harvester.Lang)
			if err != nil {
				return err
			}
			return a.harvester.PrintTitles(pages)
		}),
	}
}

// NewTreeCmd lists the files of every direct subcategory.
func NewTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [category]",
		Short: "List the files of every direct subcategory",
		Long: `List the files of each direct subcategory of a category, subcategory by
subcategory. Deeper subcategories are not visited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			pages, err := a.harvester.WalkFiles(ctx, a.categoryArg(args))
			if err != nil {
				return err
			}
			return a.harvester.PrintTitles(pages)
		}),
	}
}

// NewCategoriesCmd prints the categories of a file.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories <file>",
		Short: "Print the categories of a file",
		Long: `Print the visible categories of a file.

Examples:
  # Visible categories
  commonsmeta categories "File:Igreja da Candelária.jpg"

  # Hidden (maintenance) categories only
  commonsmeta categories --hidden "File:Igreja da Candelária.jpg"

  # Visible followed by hidden categories
  commonsmeta categories --all "File:Igreja da Candelária.jpg"`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().Bool("hidden", false, "Print hidden categories instead")
	cmd.Flags().Bool("all", false, "Print visible and hidden categories")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		file := fileArg(args)
		hidden, _ := cmd.Flags().GetBool("hidden")
		all, _ := cmd.Flags().GetBool("all")

		switch {
		case all:
			_, err := a.harvester.PrintAllCategories(ctx, file)
			return err
		case hidden:
			return a.harvester.PrintHiddenCategories(ctx, file)
		default:
			return a.harvester.PrintVisibleCategories(ctx, file)
		}
	})
	return cmd
}

// NewMetadataCmd prints the embedded metadata of a file.
func NewMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <file>",
		Short: "Print the embedded (EXIF) metadata of a file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.PrintEmbedded(ctx, fileArg(args))
		}),
	}
}

// NewSummaryCmd prints the curated extended metadata of a file.
func NewSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print date, license, author, credit, description and GPS of a file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.PrintSummary(ctx, fileArg(args))
		}),
	}
}

// NewFullCmd prints every metadata property of a file.
func NewFullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "full <file>",
		Short: "Print extended, common and file metadata of a file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.PrintFull(ctx, fileArg(args))
		}),
	}
}

// NewDepictsCmd prints the entities depicted by files of a category.
func NewDepictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "depicts [category]",
		Short: "Print the Wikidata items depicted by files of a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.PrintDepicts(ctx, a.categoryArg(args))
		}),
	}
}

// NewDescribeCmd describes the depicted items of every subcategory.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [category]",
		Short: "Describe the depicted items of every subcategory via SPARQL",
		Long: `For each direct subcategory, collect the Wikidata items its files depict and
print their label, description, location, street address and heritage
designation as returned by the Wikidata Query Service.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.DescribeCategory(ctx, a.categoryArg(args))
		}),
	}
}

// NewRunCmd runs the full harvest.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [category]",
		Short: "Run every report over a category tree",
		Long: `Walk the category once, then print for every file its visible and hidden
categories, full metadata, summary and embedded metadata. Finally every
category the files belong to (minus harvest.skip_categories) is described.

A failure in the final describe step skips that category; any other failure
stops the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			return a.harvester.Run(ctx, a.categoryArg(args))
		}),
	}
}
