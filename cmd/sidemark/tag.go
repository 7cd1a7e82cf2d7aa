package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:     "tags",
	GroupID: "records",
	Short:   "List tags with usage counts",
	Long: `List all tags. Counts are maintained by the engine; a tag with no
remaining bookmarks is pruned automatically, so everything listed here
is in use.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		_, _, tags, err := svc.Records(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tags: %v\n", err)
			os.Exit(1)
		}

		if len(tags) == 0 {
			fmt.Println("No tags.")
			return
		}

		sort.SliceStable(tags, func(i, j int) bool {
			if tags[i].Count != tags[j].Count {
				return tags[i].Count > tags[j].Count
			}
			return tags[i].Name < tags[j].Name
		})

		for _, t := range tags {
			line := fmt.Sprintf("%s (%d)", ui.RenderAccent(t.Name), t.Count)
			if t.AIGenerated {
				line += " " + ui.RenderFaint("[ai]")
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d tag(s)\n", len(tags))
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
