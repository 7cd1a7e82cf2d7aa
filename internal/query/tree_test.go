package query

import (
	"testing"

	"github.com/sidemark/sidemark/internal/types"
)

func TestBuildCategoryTreeShape(t *testing.T) {
	categories := []types.Category{
		{ID: "work", Name: "Work", Order: 1},
		{ID: "home", Name: "Home", Order: 0},
		{ID: "docs", Name: "Docs", ParentID: "work", Order: 0},
		{ID: "specs", Name: "Specs", ParentID: "docs", Order: 0},
	}

	forest := BuildCategoryTree(categories)

	if len(forest) != 2 {
		t.Fatalf("got %d roots, want 2", len(forest))
	}
	if forest[0].Category.ID != "home" || forest[1].Category.ID != "work" {
		t.Errorf("root order = [%s %s], want [home work]", forest[0].Category.ID, forest[1].Category.ID)
	}

	work := forest[1]
	if len(work.Children) != 1 || work.Children[0].Category.ID != "docs" {
		t.Fatal("docs should nest under work")
	}
	docs := work.Children[0]
	if docs.Level != 1 {
		t.Errorf("docs level = %d, want 1", docs.Level)
	}
	if len(docs.Children) != 1 || docs.Children[0].Level != 2 {
		t.Error("specs should nest at level 2")
	}
}

func TestBuildCategoryTreeFolderStateDefaults(t *testing.T) {
	categories := []types.Category{
		{ID: "root", Name: "Root"},
		{ID: "child", Name: "Child", ParentID: "root"},
		{ID: "toggled", Name: "Toggled", ParentID: "root", FolderState: types.FolderExpanded},
	}

	forest := BuildCategoryTree(categories)
	root := forest[0]
	if root.FolderState != types.FolderExpanded {
		t.Errorf("root default = %q, want expanded", root.FolderState)
	}
	for _, child := range root.Children {
		switch child.Category.ID {
		case "child":
			if child.FolderState != types.FolderCollapsed {
				t.Errorf("nested default = %q, want collapsed", child.FolderState)
			}
		case "toggled":
			if child.FolderState != types.FolderExpanded {
				t.Errorf("explicit state = %q, want expanded preserved", child.FolderState)
			}
		}
	}
}

func TestBuildCategoryTreeDanglingParent(t *testing.T) {
	categories := []types.Category{
		{ID: "orphan", Name: "Orphan", ParentID: "deleted"},
	}

	forest := BuildCategoryTree(categories)
	if len(forest) != 1 || forest[0].Category.ID != "orphan" {
		t.Fatal("dangling parent should attach the subtree at the root")
	}
	if forest[0].Level != 0 {
		t.Errorf("level = %d, want 0", forest[0].Level)
	}
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	if forest := BuildCategoryTree(nil); len(forest) != 0 {
		t.Errorf("got %d nodes from an empty set", len(forest))
	}
}
