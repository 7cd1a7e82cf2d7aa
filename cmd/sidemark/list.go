package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/query"
	"github.com/sidemark/sidemark/internal/types"
	"github.com/sidemark/sidemark/internal/ui"
)

var listFlags struct {
	category string
	tags     []string
	keyword  string
	sortBy   string
	order    string
	since    string
}

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "records",
	Short:   "List bookmarks with filters and sorting",
	Long: `List bookmarks from the store.

Category accepts a category ID or one of the builtins: all, frequent,
recent, uncategorized. Multiple --tag flags require all of them (AND).
--since accepts natural language, e.g. "last week" or "3 days ago".`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		bookmarks, _, _, err := svc.Records(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
			os.Exit(1)
		}

		results := query.Project(bookmarks, query.Params{
			Keyword:    listFlags.keyword,
			CategoryID: listFlags.category,
			Tags:       listFlags.tags,
			SortBy:     query.SortField(listFlags.sortBy),
			SortOrder:  query.SortOrder(listFlags.order),
		})

		if listFlags.since != "" {
			cutoff, err := parseSince(listFlags.since)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			results = filterSince(results, cutoff)
		}

		if len(results) == 0 {
			fmt.Println("No bookmarks match.")
			return
		}
		for _, b := range results {
			printBookmark(b)
		}
		fmt.Printf("\n%d bookmark(s)\n", len(results))
	},
}

func printBookmark(b types.Bookmark) {
	url := b.URL
	if limit := ui.Width(120) - len(b.Title) - 2; len(url) > limit && limit > 10 {
		url = url[:limit-3] + "..."
	}
	fmt.Printf("%s  %s\n", ui.RenderAccent(b.Title), url)
	detail := fmt.Sprintf("   id=%s category=%s", b.ID, b.CategoryID)
	if len(b.Tags) > 0 {
		detail += " tags=" + strings.Join(b.Tags, ",")
	}
	if b.VisitCount > 0 {
		detail += fmt.Sprintf(" visits=%d", b.VisitCount)
	}
	fmt.Println(ui.RenderFaint(detail))
}

// parseSince turns a natural-language expression into a cutoff time.
func parseSince(expr string) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(expr, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --since %q: %w", expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not understand --since %q", expr)
	}
	return r.Time, nil
}

func filterSince(bookmarks []types.Bookmark, cutoff time.Time) []types.Bookmark {
	var out []types.Bookmark
	for _, b := range bookmarks {
		if b.CreatedAt.After(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.category, "category", "c", "", "category ID or builtin (all, frequent, recent, uncategorized)")
	listCmd.Flags().StringArrayVarP(&listFlags.tags, "tag", "t", nil, "require tag (repeatable, AND semantics)")
	listCmd.Flags().StringVarP(&listFlags.keyword, "keyword", "k", "", "case-insensitive search in title, url, description, tags")
	listCmd.Flags().StringVar(&listFlags.sortBy, "sort", "title", "sort field: title, dateAdded, lastVisited, url")
	listCmd.Flags().StringVar(&listFlags.order, "order", "asc", "sort order: asc, desc")
	listCmd.Flags().StringVar(&listFlags.since, "since", "", "only bookmarks added since, natural language allowed")
	rootCmd.AddCommand(listCmd)
}
