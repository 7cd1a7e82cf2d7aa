package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidemark/sidemark/internal/query"
	"github.com/sidemark/sidemark/internal/types"
	"github.com/sidemark/sidemark/internal/ui"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	GroupID: "records",
	Short:   "Inspect and manage categories",
}

var categoryTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the category tree",
	Long: `Show the category forest as the sidebar would render it: siblings in
display order, each with its direct bookmark count and effective
expand/collapse state.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		_, categories, _, err := svc.Records(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading categories: %v\n", err)
			os.Exit(1)
		}

		forest := query.BuildCategoryTree(categories)
		if len(forest) == 0 {
			fmt.Println("No categories.")
			return
		}
		for _, node := range forest {
			printTree(node)
		}
	},
}

func printTree(node *query.TreeNode) {
	indent := strings.Repeat("  ", node.Level)
	marker := "-"
	if len(node.Children) > 0 {
		if node.FolderState == types.FolderExpanded {
			marker = "v"
		} else {
			marker = ">"
		}
	}
	name := node.Category.Name
	if node.Category.Builtin {
		name = ui.RenderAccent(name)
	}
	line := fmt.Sprintf("%s%s %s (%d)", indent, marker, name, node.Category.BookmarkCount)
	if node.Category.AIGenerated {
		line += " " + ui.RenderFaint("[ai]")
	}
	fmt.Println(line)
	fmt.Println(ui.RenderFaint(fmt.Sprintf("%s  id=%s", indent, node.Category.ID)))
	for _, child := range node.Children {
		printTree(child)
	}
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		if err := svc.RenameCategory(context.Background(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error renaming category: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Renamed %s to %s\n", ui.RenderPass("ok"), args[0], ui.RenderAccent(args[1]))
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Long: `Delete a non-builtin category. Its bookmarks move to uncategorized
and its children reparent to the deleted category's parent.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		if err := svc.DeleteCategory(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting category: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s Deleted %s\n", ui.RenderPass("ok"), args[0])
	},
}

var categoryFoldCmd = &cobra.Command{
	Use:   "fold <id> <expanded|collapsed>",
	Short: "Persist a category's expand/collapse state",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		state := types.FolderState(args[1])
		if state != types.FolderExpanded && state != types.FolderCollapsed {
			fmt.Fprintf(os.Stderr, "Error: state must be expanded or collapsed, got %q\n", args[1])
			os.Exit(1)
		}

		cfg := loadConfig()
		svc, cleanup := openService(cfg, nil)
		defer cleanup()

		if err := svc.SetFolderState(context.Background(), args[0], state); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting folder state: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s is now %s\n", ui.RenderPass("ok"), args[0], state)
	},
}

func init() {
	categoryCmd.AddCommand(categoryTreeCmd, categoryRenameCmd, categoryDeleteCmd, categoryFoldCmd)
	rootCmd.AddCommand(categoryCmd)
}
