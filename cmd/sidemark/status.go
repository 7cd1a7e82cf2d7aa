package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "sync",
	Short:   "Show store status",
	Long: `Show the state of the store: record counts, the watched browser
file, the database location and size, and when the last sync completed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		ctx := context.Background()
		bookmarks, categories, tags, err := svc.Records(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(ui.RenderAccent("sidemark status"))
		fmt.Printf("   Bookmarks:  %d\n", len(bookmarks))
		fmt.Printf("   Categories: %d\n", len(categories))
		fmt.Printf("   Tags:       %d\n", len(tags))

		fmt.Printf("   Browser:    %s %s\n", cfg.HostBookmarksFile, fileNote(cfg.HostBookmarksFile))
		fmt.Printf("   Database:   %s %s\n", cfg.DBPath, fileNote(cfg.DBPath))

		last, err := svc.LastSync(ctx)
		switch {
		case err != nil:
			fmt.Printf("   Last sync:  %s\n", ui.RenderWarn("unknown"))
		case last.IsZero():
			fmt.Printf("   Last sync:  %s\n", ui.RenderWarn("never"))
		default:
			fmt.Printf("   Last sync:  %s (%s ago)\n",
				last.Format(time.RFC3339), time.Since(last).Round(time.Second))
		}
	},
}

// fileNote describes a path's on-disk state for display.
func fileNote(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ui.RenderWarn("(missing)")
	}
	return ui.RenderFaint(fmt.Sprintf("(%s)", formatSize(info.Size())))
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
