// Package query projects the record set into display-ready views: it
// applies filter/sort/search parameters over bookmarks and shapes the
// category forest for the sidebar tree.
//
// Everything here reads cloned snapshots and returns new derived
// structures; nothing mutates shared state.
package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sidemark/sidemark/internal/types"
)

// frequentLimit is how many bookmarks the "frequent" builtin shows.
const frequentLimit = 20

// recentWindow bounds the "recent" builtin.
const recentWindow = 30 * 24 * time.Hour

// SortField selects the sort comparator.
type SortField string

const (
	SortTitle       SortField = "title"
	SortDateAdded   SortField = "dateAdded"
	SortLastVisited SortField = "lastVisited"
	SortURL         SortField = "url"
)

// SortOrder selects ascending or descending output.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Params are the projection parameters. Filters narrow in a fixed order:
// category first, then tags, then keyword.
type Params struct {
	Keyword    string
	CategoryID string
	Tags       []string
	SortBy     SortField
	SortOrder  SortOrder
}

// Project applies the filter stages and sort over a bookmark snapshot and
// returns a new ordered slice.
//
// Category semantics: "all" (or empty) keeps everything; "uncategorized"
// keeps records with no real category; "frequent" takes the top 20 by
// visit count over the *unfiltered* candidate set, ties broken by original
// order, before tag/keyword filters narrow further; "recent" keeps
// records created within the last 30 days; anything else is an exact
// category match.
func Project(bookmarks []types.Bookmark, params Params) []types.Bookmark {
	out := filterCategory(bookmarks, params.CategoryID)
	out = filterTags(out, params.Tags)
	out = filterKeyword(out, params.Keyword)
	sortBookmarks(out, params.SortBy, params.SortOrder)
	return out
}

func filterCategory(bookmarks []types.Bookmark, categoryID string) []types.Bookmark {
	switch categoryID {
	case "", types.CategoryAll:
		out := make([]types.Bookmark, len(bookmarks))
		copy(out, bookmarks)
		return out

	case types.CategoryUncategorized:
		var out []types.Bookmark
		for _, b := range bookmarks {
			if b.CategoryID == "" || b.CategoryID == types.CategoryUncategorized {
				out = append(out, b)
			}
		}
		return out

	case types.CategoryFrequent:
		out := make([]types.Bookmark, len(bookmarks))
		copy(out, bookmarks)
		// Stable sort keeps original order for equal visit counts.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].VisitCount > out[j].VisitCount
		})
		if len(out) > frequentLimit {
			out = out[:frequentLimit]
		}
		return out

	case types.CategoryRecent:
		cutoff := time.Now().Add(-recentWindow)
		var out []types.Bookmark
		for _, b := range bookmarks {
			if b.CreatedAt.After(cutoff) {
				out = append(out, b)
			}
		}
		return out

	default:
		var out []types.Bookmark
		for _, b := range bookmarks {
			if b.CategoryID == categoryID {
				out = append(out, b)
			}
		}
		return out
	}
}

// filterTags keeps bookmarks whose tag set is a superset of every
// requested tag (AND semantics).
func filterTags(bookmarks []types.Bookmark, tags []string) []types.Bookmark {
	if len(tags) == 0 {
		return bookmarks
	}
	var out []types.Bookmark
next:
	for _, b := range bookmarks {
		for _, want := range tags {
			if !b.HasTag(want) {
				continue next
			}
		}
		out = append(out, b)
	}
	return out
}

// filterKeyword matches a case-insensitive substring against title, url,
// description, or any tag.
func filterKeyword(bookmarks []types.Bookmark, keyword string) []types.Bookmark {
	if keyword == "" {
		return bookmarks
	}
	needle := strings.ToLower(keyword)
	var out []types.Bookmark
	for _, b := range bookmarks {
		if matchesKeyword(b, needle) {
			out = append(out, b)
		}
	}
	return out
}

func matchesKeyword(b types.Bookmark, needle string) bool {
	if strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.URL), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func sortBookmarks(bookmarks []types.Bookmark, field SortField, order SortOrder) {
	if field == "" {
		return
	}

	// Collators are not safe for concurrent use, so each projection
	// builds its own.
	coll := collate.New(language.Und)

	cmp := func(a, b types.Bookmark) int {
		switch field {
		case SortTitle:
			return coll.CompareString(a.Title, b.Title)
		case SortURL:
			return coll.CompareString(a.URL, b.URL)
		case SortDateAdded:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortLastVisited:
			return visitedTime(a).Compare(visitedTime(b))
		}
		return 0
	}

	sort.SliceStable(bookmarks, func(i, j int) bool {
		c := cmp(bookmarks[i], bookmarks[j])
		if order == OrderDesc {
			return c > 0
		}
		return c < 0
	})
}

// visitedTime treats a never-visited bookmark as the zero time, which
// sorts before any real visit.
func visitedTime(b types.Bookmark) time.Time {
	if b.LastVisited == nil {
		return time.Time{}
	}
	return *b.LastVisited
}
