package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sidemark/sidemark/internal/types"
)

// Collections is the typed view over a Gateway. It marshals whole record
// sets in and out of their collection documents and seeds the builtin
// categories into an empty store.
type Collections struct {
	gw Gateway
}

// NewCollections wraps a gateway.
func NewCollections(gw Gateway) *Collections {
	return &Collections{gw: gw}
}

// Bookmarks loads the full bookmark set. An unwritten collection is an
// empty set, not an error.
func (c *Collections) Bookmarks(ctx context.Context) ([]types.Bookmark, error) {
	var out []types.Bookmark
	if err := c.load(ctx, CollectionBookmarks, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories loads the full category set, seeding the builtins when the
// collection has never been written.
func (c *Collections) Categories(ctx context.Context) ([]types.Category, error) {
	data, ok, err := c.gw.Get(ctx, CollectionCategories)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.BuiltinCategories(time.Now()), nil
	}
	var out []types.Category
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, CollectionCategories, err)
	}
	return out, nil
}

// Tags loads the full tag set.
func (c *Collections) Tags(ctx context.Context) ([]types.Tag, error) {
	var out []types.Tag
	if err := c.load(ctx, CollectionTags, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAll writes the complete replacement record sets. It is called only
// after an engine pass has fully succeeded in memory, so a failure here
// can leave at most a collection-level tear, never a torn record.
func (c *Collections) SaveAll(ctx context.Context, bookmarks []types.Bookmark, categories []types.Category, tags []types.Tag) error {
	if err := c.save(ctx, CollectionBookmarks, bookmarks); err != nil {
		return err
	}
	if err := c.save(ctx, CollectionCategories, categories); err != nil {
		return err
	}
	return c.save(ctx, CollectionTags, tags)
}

// LastSync returns the recorded completion time of the last successful
// sync pass, or the zero time when no sync has run.
func (c *Collections) LastSync(ctx context.Context) (time.Time, error) {
	data, ok, err := c.gw.Get(ctx, CollectionLastSync)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return time.Time{}, fmt.Errorf("%w: decode %s: %v", ErrPersistence, CollectionLastSync, err)
	}
	return t, nil
}

// SetLastSync records a sync completion time.
func (c *Collections) SetLastSync(ctx context.Context, t time.Time) error {
	return c.save(ctx, CollectionLastSync, t)
}

// Settings loads the settings document into dst (a pointer to a settings
// struct or map). Missing settings leave dst untouched.
func (c *Collections) Settings(ctx context.Context, dst any) error {
	data, ok, err := c.gw.Get(ctx, CollectionSettings)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrPersistence, CollectionSettings, err)
	}
	return nil
}

// SaveSettings replaces the settings document.
func (c *Collections) SaveSettings(ctx context.Context, v any) error {
	return c.save(ctx, CollectionSettings, v)
}

func (c *Collections) load(ctx context.Context, key string, dst any) error {
	data, ok, err := c.gw.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrPersistence, key, err)
	}
	return nil
}

func (c *Collections) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, key, err)
	}
	return c.gw.Set(ctx, key, data)
}
