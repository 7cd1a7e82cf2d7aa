package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/engine"
	"github.com/sidemark/sidemark/internal/types"
	"github.com/sidemark/sidemark/internal/ui"
)

var addFlags struct {
	title       string
	url         string
	description string
	category    string
	tags        []string
}

var addCmd = &cobra.Command{
	Use:     "add",
	GroupID: "records",
	Short:   "Add a bookmark",
	Long: `Add a bookmark to the store.

Records created here carry no browser correlation: they live only in
the store and survive every sync. When an Anthropic API key is
configured and auto-classify is on, uncategorized additions get AI
category and tag suggestions in the background.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		b := types.Bookmark{
			Title:       addFlags.title,
			URL:         addFlags.url,
			Description: addFlags.description,
			CategoryID:  addFlags.category,
			Tags:        addFlags.tags,
		}

		created, err := svc.CreateBookmark(context.Background(), b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error adding bookmark: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Added %s (%s)\n", ui.RenderPass("ok"), ui.RenderAccent(created.Title), created.ID)
	},
}

var editFlags struct {
	title       string
	url         string
	description string
	category    string
	tags        []string
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	GroupID: "records",
	Short:   "Edit a bookmark",
	Long: `Edit an existing bookmark. Only the flags you pass change; identity,
creation time and visit stats are always preserved.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		ctx := context.Background()
		current, err := findBookmark(ctx, svc, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if cmd.Flags().Changed("title") {
			current.Title = editFlags.title
		}
		if cmd.Flags().Changed("url") {
			current.URL = editFlags.url
		}
		if cmd.Flags().Changed("description") {
			current.Description = editFlags.description
		}
		if cmd.Flags().Changed("category") {
			current.CategoryID = editFlags.category
		}
		if cmd.Flags().Changed("tag") {
			current.Tags = editFlags.tags
		}

		updated, err := svc.UpdateBookmark(ctx, current)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating bookmark: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Updated %s\n", ui.RenderPass("ok"), ui.RenderAccent(updated.Title))
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	GroupID: "records",
	Short:   "Remove a bookmark",
	Long: `Remove a bookmark from the store. Browser-correlated records are also
removed from the browser, best-effort.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		if err := svc.DeleteBookmark(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing bookmark: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Removed %s\n", ui.RenderPass("ok"), args[0])
	},
}

var visitCmd = &cobra.Command{
	Use:     "visit <id>",
	GroupID: "records",
	Short:   "Record a bookmark visit",
	Long: `Record a visit: bumps the visit count and stamps the last-visited
time. Visits feed the "frequent" builtin view.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		b, err := svc.Visit(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording visit: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s now at %d visit(s)\n", ui.RenderPass("ok"), ui.RenderAccent(b.Title), b.VisitCount)
	},
}

// findBookmark loads the record for an edit so unchanged fields carry
// over.
func findBookmark(ctx context.Context, svc *engine.Service, id string) (types.Bookmark, error) {
	bookmarks, _, _, err := svc.Records(ctx)
	if err != nil {
		return types.Bookmark{}, err
	}
	for _, b := range bookmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return types.Bookmark{}, fmt.Errorf("bookmark %s not found", id)
}

func init() {
	addCmd.Flags().StringVarP(&addFlags.title, "title", "T", "", "bookmark title (required)")
	addCmd.Flags().StringVarP(&addFlags.url, "url", "u", "", "bookmark URL (required)")
	addCmd.Flags().StringVarP(&addFlags.description, "description", "d", "", "free-form note")
	addCmd.Flags().StringVarP(&addFlags.category, "category", "c", "", "category ID")
	addCmd.Flags().StringArrayVarP(&addFlags.tags, "tag", "t", nil, "tag name (repeatable)")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("url")

	editCmd.Flags().StringVarP(&editFlags.title, "title", "T", "", "new title")
	editCmd.Flags().StringVarP(&editFlags.url, "url", "u", "", "new URL")
	editCmd.Flags().StringVarP(&editFlags.description, "description", "d", "", "new description")
	editCmd.Flags().StringVarP(&editFlags.category, "category", "c", "", "new category ID")
	editCmd.Flags().StringArrayVarP(&editFlags.tags, "tag", "t", nil, "replacement tag set (repeatable)")

	rootCmd.AddCommand(addCmd, editCmd, removeCmd, visitCmd)
}
