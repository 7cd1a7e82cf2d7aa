package query

import (
	"sort"

	"github.com/sidemark/sidemark/internal/types"
)

// TreeNode is one category in the sidebar tree projection.
type TreeNode struct {
	Category    types.Category
	Level       int // root = 0
	FolderState types.FolderState
	Children    []*TreeNode
}

// BuildCategoryTree shapes the flat category set into a forest. Siblings
// are ordered by their Order field ascending; each node gets its depth
// and an effective folder state.
//
// The folder state default — root-level folders expanded, deeper levels
// collapsed — only applies when no explicit state has been persisted for
// that category.
func BuildCategoryTree(categories []types.Category) []*TreeNode {
	byParent := make(map[string][]types.Category)
	ids := make(map[string]bool, len(categories))
	for _, c := range categories {
		ids[c.ID] = true
	}
	for _, c := range categories {
		parent := c.ParentID
		if parent != "" && !ids[parent] {
			// A dangling parent reference attaches at the forest root
			// rather than dropping the subtree.
			parent = ""
		}
		byParent[parent] = append(byParent[parent], c)
	}
	return buildLevel(byParent, "", 0)
}

func buildLevel(byParent map[string][]types.Category, parentID string, level int) []*TreeNode {
	siblings := byParent[parentID]
	sort.SliceStable(siblings, func(i, j int) bool {
		return siblings[i].Order < siblings[j].Order
	})

	var nodes []*TreeNode
	for _, c := range siblings {
		node := &TreeNode{
			Category:    c,
			Level:       level,
			FolderState: effectiveState(c, level),
			Children:    buildLevel(byParent, c.ID, level+1),
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func effectiveState(c types.Category, level int) types.FolderState {
	if c.FolderState != "" {
		return c.FolderState
	}
	if level == 0 {
		return types.FolderExpanded
	}
	return types.FolderCollapsed
}
