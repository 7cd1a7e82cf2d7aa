package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sidemark/sidemark/internal/types"
)

// Recount recomputes every category's BookmarkCount as the number of
// records whose CategoryID equals the category's ID. Counts are direct
// membership only — a category's count never includes its child
// categories' members.
//
// Pure and idempotent: the inputs are not mutated and a second call with
// the same inputs yields the same output.
func Recount(bookmarks []types.Bookmark, categories []types.Category) []types.Category {
	counts := make(map[string]int, len(categories))
	for _, b := range bookmarks {
		counts[b.CategoryID]++
	}
	out := make([]types.Category, len(categories))
	for i, c := range categories {
		c.BookmarkCount = counts[c.ID]
		out[i] = c
	}
	return out
}

// Retag recomputes every tag's Count as the number of bookmark tag-list
// occurrences of its name (case-insensitive). Tag names referenced by a
// bookmark but missing from the tag set get a new TagRecord; tags whose
// recomputed count is zero are dropped.
//
// Tag identity is the case-insensitive name. A surviving tag keeps its ID,
// spelling, provenance and CreatedAt; UpdatedAt moves only when the count
// actually changed, so a no-op pass returns the input unchanged.
func Retag(bookmarks []types.Bookmark, priorTags []types.Tag, now time.Time) []types.Tag {
	counts := make(map[string]int)
	spelling := make(map[string]string) // first-seen spelling per key
	var appeared []string               // keys in first-appearance order
	for _, b := range bookmarks {
		for _, name := range b.Tags {
			key := strings.ToLower(name)
			if _, ok := spelling[key]; !ok {
				spelling[key] = name
				appeared = append(appeared, key)
			}
			counts[key]++
		}
	}

	known := make(map[string]bool, len(priorTags))
	var out []types.Tag
	for _, t := range priorTags {
		key := strings.ToLower(t.Name)
		known[key] = true
		c := counts[key]
		if c == 0 {
			continue // pruned
		}
		if t.Count != c {
			t.Count = c
			t.UpdatedAt = now
		}
		out = append(out, t)
	}

	for _, key := range appeared {
		if known[key] {
			continue
		}
		out = append(out, types.Tag{
			ID:        uuid.New().String(),
			Name:      spelling[key],
			Count:     counts[key],
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return out
}
