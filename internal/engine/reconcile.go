// Package engine implements the bookmark reconciliation core: merging a
// freshly read host tree against previously persisted records, maintaining
// derived aggregates, and orchestrating the read→merge→write-back cycle.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sidemark/sidemark/internal/host"
	"github.com/sidemark/sidemark/internal/types"
)

// Result is the full replacement record set produced by one reconcile
// pass. Inputs are never mutated, so a failed pass can be retried safely.
type Result struct {
	Bookmarks  []types.Bookmark
	Categories []types.Category
}

// Reconcile merges the host tree snapshot with the prior record sets.
//
// Identity correlates through HostID: a leaf seen before keeps its record's
// internal ID, tags, category, description, AI metadata, visit stats and
// CreatedAt, and its UpdatedAt moves only when the host-side title or URL
// actually changed. Unseen leaves become new records. Prior records whose
// HostID vanished from the tree are dropped; records without a HostID
// (created inside the app) are always retained verbatim.
//
// Folders resolve to categories by exact name among existing non-builtin
// categories under the same resolved parent; unmatched folders synthesize
// a new category. Resolution is memoized per pass, so every descendant of
// a folder sees the same category.
//
// A leaf whose HostParentID was never seen (malformed tree) attaches at the
// forest root and lands in uncategorized rather than being discarded.
func Reconcile(nodes []host.Node, priorBookmarks []types.Bookmark, priorCategories []types.Category, now time.Time) Result {
	byHostID := make(map[string]types.Bookmark, len(priorBookmarks))
	for _, b := range priorBookmarks {
		if b.HostID != "" {
			byHostID[b.HostID] = b
		}
	}

	categories := make([]types.Category, len(priorCategories))
	copy(categories, priorCategories)

	// Category lookup by (resolved parent, exact name), user categories only.
	catKey := func(parentID, name string) string { return parentID + "\x00" + name }
	byKey := make(map[string]string, len(categories))
	for _, c := range categories {
		if !c.Builtin {
			byKey[catKey(c.ParentID, c.Name)] = c.ID
		}
	}

	// folderCat memoizes host folder → category resolution for this pass.
	folderCat := make(map[string]string, 16)

	var bookmarks []types.Bookmark
	seen := make(map[string]bool, len(nodes))

	for _, n := range nodes {
		if n.IsFolder() {
			parentCat := folderCat[n.HostParentID] // "" when the parent was filtered or unknown
			key := catKey(parentCat, n.Title)
			if id, ok := byKey[key]; ok {
				folderCat[n.HostID] = id
				continue
			}
			cat := types.Category{
				ID:          uuid.New().String(),
				Name:        n.Title,
				ParentID:    parentCat,
				Order:       n.Index,
				CreatedAt:   now,
				UpdatedAt:   now,
				FolderState: types.FolderCollapsed,
			}
			categories = append(categories, cat)
			byKey[key] = cat.ID
			folderCat[n.HostID] = cat.ID
			continue
		}

		seen[n.HostID] = true
		if prior, ok := byHostID[n.HostID]; ok {
			merged := cloneBookmark(prior)
			changed := merged.Title != n.Title || merged.URL != n.URL
			merged.Title = n.Title
			merged.URL = n.URL
			merged.HostParentID = n.HostParentID
			merged.HostIndex = n.Index
			if changed {
				merged.UpdatedAt = now
			}
			bookmarks = append(bookmarks, merged)
			continue
		}

		created := n.DateAdded
		if created.IsZero() {
			created = now
		}
		categoryID := folderCat[n.HostParentID]
		if categoryID == "" {
			categoryID = types.CategoryUncategorized
		}
		bookmarks = append(bookmarks, types.Bookmark{
			ID:           uuid.New().String(),
			Title:        n.Title,
			URL:          n.URL,
			CategoryID:   categoryID,
			Tags:         []string{},
			CreatedAt:    created,
			UpdatedAt:    created,
			HostID:       n.HostID,
			HostParentID: n.HostParentID,
			HostIndex:    n.Index,
		})
	}

	// App-created records survive any host tree content.
	for _, b := range priorBookmarks {
		if b.HostID == "" {
			bookmarks = append(bookmarks, cloneBookmark(b))
		}
	}

	return Result{Bookmarks: bookmarks, Categories: categories}
}

// cloneBookmark deep-copies a record so merges never alias prior state.
func cloneBookmark(b types.Bookmark) types.Bookmark {
	out := b
	if b.Tags != nil {
		out.Tags = make([]string, len(b.Tags))
		copy(out.Tags, b.Tags)
	}
	if b.AI != nil {
		ai := *b.AI
		if b.AI.Tags != nil {
			ai.Tags = make([]string, len(b.AI.Tags))
			copy(ai.Tags, b.AI.Tags)
		}
		out.AI = &ai
	}
	if b.LastVisited != nil {
		t := *b.LastVisited
		out.LastVisited = &t
	}
	return out
}
