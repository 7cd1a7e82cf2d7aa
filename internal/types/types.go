// Package types provides the record structures shared across the sidemark
// bookmark store.
//
// Records are stored as whole JSON collections with last-write-wins
// semantics at collection granularity. Timestamps carry enough information
// to detect whether a sync pass actually changed anything.
package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Builtin category IDs. These four virtual categories always exist and can
// never be renamed, reparented, or deleted.
const (
	CategoryAll           = "all"
	CategoryFrequent      = "frequent"
	CategoryRecent        = "recent"
	CategoryUncategorized = "uncategorized"
)

// FolderState describes whether a category folder is shown expanded or
// collapsed in the sidebar tree. An empty value means the user never
// toggled it and display defaults apply.
type FolderState string

const (
	FolderExpanded  FolderState = "expanded"
	FolderCollapsed FolderState = "collapsed"
)

// AIMetadata holds classification results attached to a bookmark.
// All fields are suggestions; none of them override user edits.
type AIMetadata struct {
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Bookmark is one record in the bookmarks collection.
//
// ID is the stable internal identity, generated once and never reused.
// HostID correlates the record to a leaf of the browser's native bookmark
// tree; it is empty for records created inside the app that were never
// pushed to the host. At most one Bookmark exists per HostID.
type Bookmark struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Favicon     string `json:"favicon,omitempty"`
	Description string `json:"description,omitempty"`

	// ===== Taxonomy =====
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags,omitempty"` // tag names; name is the tag key

	// ===== Timestamps & usage =====
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastVisited *time.Time `json:"last_visited,omitempty"`
	VisitCount  int        `json:"visit_count"`

	// ===== Enrichment =====
	AI *AIMetadata `json:"ai_metadata,omitempty"`

	// ===== Host correlation =====
	HostID       string `json:"host_id,omitempty"`
	HostParentID string `json:"host_parent_id,omitempty"`
	HostIndex    int    `json:"host_index,omitempty"`
}

// HasTag reports whether the bookmark carries the named tag
// (case-insensitive, matching tag identity rules).
func (b *Bookmark) HasTag(name string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// Validate checks the fields a user can set directly. It is applied at the
// CRUD boundary; records coming out of a sync pass are trusted.
func (b *Bookmark) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", b.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q must be absolute", b.URL)
	}
	return nil
}

// SetDefaults fills optional fields so records behave consistently when
// fields are omitted by callers.
func (b *Bookmark) SetDefaults(now time.Time) {
	if b.CategoryID == "" {
		b.CategoryID = CategoryUncategorized
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
}

// Category is one record in the categories collection.
//
// Non-builtin categories form a forest via ParentID. BookmarkCount is
// derived and counts direct members only, never child categories' members.
type Category struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	ParentID      string      `json:"parent_id,omitempty"`
	Order         int         `json:"order"`
	BookmarkCount int         `json:"bookmark_count"`
	AIGenerated   bool        `json:"is_ai_generated,omitempty"`
	Builtin       bool        `json:"builtin,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	FolderState   FolderState `json:"folder_state,omitempty"`
}

// Tag is one record in the tags collection. Name is the unique key
// (case-insensitive); ID is a stable handle assigned once per unique name.
// Count is derived and a tag whose count reaches zero is pruned.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Count       int       `json:"count"`
	AIGenerated bool      `json:"is_ai_generated,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsBuiltinCategory reports whether id names one of the fixed virtual
// categories.
func IsBuiltinCategory(id string) bool {
	switch id {
	case CategoryAll, CategoryFrequent, CategoryRecent, CategoryUncategorized:
		return true
	}
	return false
}

// BuiltinCategories returns the fixed category set seeded into an empty
// store. Order matches the sidebar's fixed section.
func BuiltinCategories(now time.Time) []Category {
	names := []struct {
		id, name string
	}{
		{CategoryAll, "All"},
		{CategoryFrequent, "Frequently Used"},
		{CategoryRecent, "Recently Added"},
		{CategoryUncategorized, "Uncategorized"},
	}
	cats := make([]Category, 0, len(names))
	for i, n := range names {
		cats = append(cats, Category{
			ID:        n.id,
			Name:      n.name,
			Order:     i,
			Builtin:   true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return cats
}
