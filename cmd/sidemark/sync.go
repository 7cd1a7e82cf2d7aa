package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/engine"
	"github.com/sidemark/sidemark/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "sync",
	Short:   "Reconcile the browser bookmark tree into the store",
	Long: `Read the browser's native bookmark tree and merge it with the store.

One pass:
  1. Reads the host bookmarks file
  2. Correlates leaves to existing records and preserves your edits
  3. Synthesizes categories from folders
  4. Recomputes category and tag counts
  5. Writes the complete replacement sets back

A failed pass leaves the store untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		fmt.Printf("%s Syncing from %s...\n", ui.RenderAccent("sync"), cfg.HostBookmarksFile)

		stats, err := svc.Sync(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error during sync: %v\n", err)
			if engine.IsFatal(err) {
				fmt.Fprintln(os.Stderr, "The store was left unchanged.")
			}
			os.Exit(1)
		}

		fmt.Printf("%s Sync complete in %v\n", ui.RenderPass("ok"), stats.Duration.Round(time.Millisecond))
		fmt.Printf("   Bookmarks: %d (added %d, updated %d, removed %d)\n",
			stats.Total, stats.Added, stats.Updated, stats.Removed)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
