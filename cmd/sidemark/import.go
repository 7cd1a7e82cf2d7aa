package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/netscape"
	"github.com/sidemark/sidemark/internal/ui"
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	GroupID: "sync",
	Short:   "Import a Netscape bookmark export",
	Long: `Import a Netscape-format bookmark file (the HTML export every major
browser produces). Folders become categories, entries whose URL is
already in the store are skipped, and imported records are app-owned:
they carry no browser correlation and survive every sync.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", args[0], err)
			os.Exit(1)
		}
		defer f.Close()

		nodes, err := netscape.Parse(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", args[0], err)
			os.Exit(1)
		}

		stats, err := svc.Import(context.Background(), nodes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Imported %d bookmark(s), %d new categor(ies), skipped %d duplicate(s)\n",
			ui.RenderPass("ok"), stats.Bookmarks, stats.Categories, stats.Skipped)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
