package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/sidemark/sidemark/internal/types"
)

func titles(bookmarks []types.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.Title
	}
	return out
}

func TestProjectCategoryExact(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "a", CategoryID: "work"},
		{Title: "b", CategoryID: "home"},
		{Title: "c", CategoryID: "work"},
	}

	out := Project(bookmarks, Params{CategoryID: "work"})
	if len(out) != 2 {
		t.Fatalf("got %d, want 2", len(out))
	}
	for _, b := range out {
		if b.CategoryID != "work" {
			t.Errorf("leaked %q", b.CategoryID)
		}
	}
}

func TestProjectCategoryAll(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "a", CategoryID: "work"},
		{Title: "b"},
	}
	for _, id := range []string{"", types.CategoryAll} {
		if got := Project(bookmarks, Params{CategoryID: id}); len(got) != 2 {
			t.Errorf("category %q: got %d, want everything", id, len(got))
		}
	}
}

func TestProjectUncategorized(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "a", CategoryID: "work"},
		{Title: "b", CategoryID: types.CategoryUncategorized},
		{Title: "c"}, // empty counts as uncategorized too
	}

	out := Project(bookmarks, Params{CategoryID: types.CategoryUncategorized})
	if got := titles(out); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("got %v, want [b c]", got)
	}
}

func TestProjectFrequentTopTwenty(t *testing.T) {
	var bookmarks []types.Bookmark
	for i := 0; i < 25; i++ {
		bookmarks = append(bookmarks, types.Bookmark{
			Title:      fmt.Sprintf("b%02d", i),
			VisitCount: i,
		})
	}

	out := Project(bookmarks, Params{CategoryID: types.CategoryFrequent})
	if len(out) != 20 {
		t.Fatalf("got %d, want the top 20", len(out))
	}
	if out[0].VisitCount != 24 {
		t.Errorf("first visit count = %d, want 24", out[0].VisitCount)
	}
	for _, b := range out {
		if b.VisitCount < 5 {
			t.Errorf("%s (count %d) should have been cut", b.Title, b.VisitCount)
		}
	}
}

func TestProjectFrequentTiesKeepOriginalOrder(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "first", VisitCount: 1},
		{Title: "second", VisitCount: 1},
		{Title: "third", VisitCount: 2},
	}

	out := Project(bookmarks, Params{CategoryID: types.CategoryFrequent})
	if got := titles(out); got[0] != "third" || got[1] != "first" || got[2] != "second" {
		t.Errorf("got %v, want [third first second]", got)
	}
}

func TestProjectFrequentCutBeforeOtherFilters(t *testing.T) {
	// 21 heavily visited records without the tag, then one tagged record
	// with few visits. The frequent cut happens first, so the tagged
	// record never reaches the tag filter.
	var bookmarks []types.Bookmark
	for i := 0; i < 21; i++ {
		bookmarks = append(bookmarks, types.Bookmark{
			Title:      fmt.Sprintf("busy%02d", i),
			VisitCount: 100 + i,
		})
	}
	bookmarks = append(bookmarks, types.Bookmark{
		Title:      "tagged",
		VisitCount: 1,
		Tags:       []string{"go"},
	})

	out := Project(bookmarks, Params{CategoryID: types.CategoryFrequent, Tags: []string{"go"}})
	if len(out) != 0 {
		t.Errorf("got %v, want empty: the tagged record is outside the top 20", titles(out))
	}
}

func TestProjectRecentWindow(t *testing.T) {
	now := time.Now()
	bookmarks := []types.Bookmark{
		{Title: "new", CreatedAt: now.Add(-24 * time.Hour)},
		{Title: "old", CreatedAt: now.Add(-40 * 24 * time.Hour)},
	}

	out := Project(bookmarks, Params{CategoryID: types.CategoryRecent})
	if got := titles(out); len(got) != 1 || got[0] != "new" {
		t.Errorf("got %v, want [new]", got)
	}
}

func TestProjectTagsAreANDed(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "both", Tags: []string{"go", "web"}},
		{Title: "one", Tags: []string{"go"}},
		{Title: "caps", Tags: []string{"GO", "Web"}},
	}

	out := Project(bookmarks, Params{Tags: []string{"go", "web"}})
	if got := titles(out); len(got) != 2 || got[0] != "both" || got[1] != "caps" {
		t.Errorf("got %v, want [both caps]", got)
	}
}

func TestProjectKeyword(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "Go blog", URL: "https://go.dev/blog"},
		{Title: "Recipes", URL: "https://food.test", Description: "weeknight golang-free cooking"},
		{Title: "Tagged", URL: "https://x.test", Tags: []string{"golang"}},
		{Title: "Unrelated", URL: "https://y.test"},
	}

	out := Project(bookmarks, Params{Keyword: "golang"})
	if got := titles(out); len(got) != 2 || got[0] != "Recipes" || got[1] != "Tagged" {
		t.Errorf("got %v, want [Recipes Tagged]", got)
	}
}

func TestProjectSortTitle(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "banana"},
		{Title: "Apple"},
		{Title: "cherry"},
	}

	out := Project(bookmarks, Params{SortBy: SortTitle, SortOrder: OrderAsc})
	if got := titles(out); got[0] != "Apple" || got[1] != "banana" || got[2] != "cherry" {
		t.Errorf("asc got %v", got)
	}

	out = Project(bookmarks, Params{SortBy: SortTitle, SortOrder: OrderDesc})
	if got := titles(out); got[0] != "cherry" || got[2] != "Apple" {
		t.Errorf("desc got %v", got)
	}
}

func TestProjectSortDateAdded(t *testing.T) {
	now := time.Now()
	bookmarks := []types.Bookmark{
		{Title: "newest", CreatedAt: now},
		{Title: "oldest", CreatedAt: now.Add(-48 * time.Hour)},
		{Title: "middle", CreatedAt: now.Add(-24 * time.Hour)},
	}

	out := Project(bookmarks, Params{SortBy: SortDateAdded, SortOrder: OrderDesc})
	if got := titles(out); got[0] != "newest" || got[2] != "oldest" {
		t.Errorf("got %v, want newest first", got)
	}
}

func TestProjectSortLastVisitedNilFirst(t *testing.T) {
	now := time.Now()
	bookmarks := []types.Bookmark{
		{Title: "visited", LastVisited: &now},
		{Title: "never"},
	}

	out := Project(bookmarks, Params{SortBy: SortLastVisited, SortOrder: OrderAsc})
	if got := titles(out); got[0] != "never" {
		t.Errorf("got %v, want the never-visited record first ascending", got)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	bookmarks := []types.Bookmark{
		{Title: "b"},
		{Title: "a"},
	}

	_ = Project(bookmarks, Params{SortBy: SortTitle})
	if bookmarks[0].Title != "b" {
		t.Error("projection reordered the caller's slice")
	}
}
