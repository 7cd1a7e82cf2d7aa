// Package storage provides the persistence gateway: uniform get/set over
// named collections backed by an embedded SQLite database.
//
// The gateway stores each collection as a single JSON document. All
// mutating callers read the entire collection, modify it in memory, and
// write the whole document back; last writer wins at collection
// granularity. No schema is enforced at this boundary — the engine
// validates record shape.
package storage

import (
	"context"
	"errors"
)

// Collection keys understood by the gateway.
const (
	CollectionSettings   = "settings"
	CollectionBookmarks  = "bookmarks"
	CollectionCategories = "categories"
	CollectionTags       = "tags"
	CollectionLastSync   = "last_sync"
)

// ErrPersistence wraps any gateway read or write failure. Callers check it
// with errors.Is to distinguish storage trouble from domain errors.
var ErrPersistence = errors.New("persistence failure")

// Gateway is the raw key-value capability over named collections.
//
// Get returns the stored document and true, or ok=false when the
// collection has never been written. Set replaces the document atomically.
type Gateway interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
