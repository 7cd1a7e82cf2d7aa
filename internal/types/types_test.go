package types

import (
	"testing"
	"time"
)

func TestBookmarkValidate(t *testing.T) {
	cases := []struct {
		name    string
		b       Bookmark
		wantErr bool
	}{
		{"valid", Bookmark{Title: "X", URL: "https://example.com"}, false},
		{"missing title", Bookmark{URL: "https://example.com"}, true},
		{"missing url", Bookmark{Title: "X"}, true},
		{"relative url", Bookmark{Title: "X", URL: "/path"}, true},
		{"scheme only", Bookmark{Title: "X", URL: "https://"}, true},
		{"with path and query", Bookmark{Title: "X", URL: "https://example.com/a?b=c"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.b.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBookmarkHasTag(t *testing.T) {
	b := Bookmark{Tags: []string{"Go", "reading"}}

	if !b.HasTag("go") || !b.HasTag("GO") {
		t.Error("tag match must be case-insensitive")
	}
	if b.HasTag("golang") {
		t.Error("substring must not match")
	}

	empty := Bookmark{}
	if empty.HasTag("anything") {
		t.Error("empty tag set matches nothing")
	}
}

func TestBookmarkSetDefaults(t *testing.T) {
	now := time.Now()
	b := Bookmark{Title: "X", URL: "https://x.test"}
	b.SetDefaults(now)

	if b.CategoryID != CategoryUncategorized {
		t.Errorf("category = %q, want uncategorized", b.CategoryID)
	}
	if b.Tags == nil {
		t.Error("tags should default to an empty slice")
	}
	if !b.CreatedAt.Equal(now) || !b.UpdatedAt.Equal(now) {
		t.Error("timestamps should default to now")
	}

	// Existing values stay put.
	set := Bookmark{CategoryID: "work", CreatedAt: now.Add(-time.Hour)}
	set.SetDefaults(now)
	if set.CategoryID != "work" || !set.CreatedAt.Equal(now.Add(-time.Hour)) {
		t.Error("defaults must not clobber existing values")
	}
}

func TestIsBuiltinCategory(t *testing.T) {
	for _, id := range []string{CategoryAll, CategoryFrequent, CategoryRecent, CategoryUncategorized} {
		if !IsBuiltinCategory(id) {
			t.Errorf("%s should be builtin", id)
		}
	}
	if IsBuiltinCategory("work") || IsBuiltinCategory("") {
		t.Error("non-builtin IDs misreported")
	}
}

func TestBuiltinCategories(t *testing.T) {
	now := time.Now()
	cats := BuiltinCategories(now)

	if len(cats) != 4 {
		t.Fatalf("got %d builtins, want 4", len(cats))
	}
	for i, c := range cats {
		if !c.Builtin {
			t.Errorf("%s not marked builtin", c.ID)
		}
		if c.Order != i {
			t.Errorf("%s order = %d, want %d", c.ID, c.Order, i)
		}
		if !IsBuiltinCategory(c.ID) {
			t.Errorf("%s not recognized by IsBuiltinCategory", c.ID)
		}
	}
}
