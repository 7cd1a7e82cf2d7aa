package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/ui"
)

var classifyCmd = &cobra.Command{
	Use:     "classify <id>",
	GroupID: "records",
	Short:   "Run AI classification for a bookmark",
	Long: `Ask the configured Anthropic model for a category, tags, and a
summary for one bookmark. The suggested category only applies when the
bookmark is still uncategorized; suggested tags merge with existing
ones.

Requires an API key in the config file or SIDEMARK_ANTHROPIC_API_KEY.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		fmt.Printf("%s Classifying %s...\n", ui.RenderAccent("ai"), args[0])

		b, err := svc.Classify(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error classifying: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s %s\n", ui.RenderPass("ok"), ui.RenderAccent(b.Title))
		if b.AI != nil {
			fmt.Printf("   Category:   %s\n", b.AI.Category)
			fmt.Printf("   Tags:       %s\n", strings.Join(b.AI.Tags, ", "))
			if b.AI.Summary != "" {
				fmt.Printf("   Summary:    %s\n", b.AI.Summary)
			}
			fmt.Printf("   Confidence: %.2f\n", b.AI.Confidence)
		}
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
