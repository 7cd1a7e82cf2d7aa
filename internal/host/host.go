// Package host reads the browser's native bookmark tree and exposes it as
// a flat, parent-referencing node sequence for the reconciliation engine.
//
// The host tree is external read-only state: nodes are produced fresh on
// every read and never persisted verbatim. Mutation passthroughs exist so
// in-app edits can be mirrored back, but they are best-effort — the in-app
// record set stays authoritative.
package host

import (
	"context"
	"errors"
	"time"
)

// ErrHostUnavailable is returned when the host bookmark tree cannot be
// read at all. A sync pass cannot proceed without a baseline, so this is
// fatal to the pass and must propagate.
var ErrHostUnavailable = errors.New("host bookmark tree unavailable")

// ErrPassthroughUnsupported is returned by mutation passthroughs when the
// backend cannot safely write to the host (e.g. the browser owns the file
// while running). Callers treat it as a logged best-effort failure.
var ErrPassthroughUnsupported = errors.New("host mutation passthrough not supported")

// Node is one entry of the flattened host tree snapshot.
//
// An empty URL marks a folder. HostParentID is empty for forest roots,
// including children of structural containers that were filtered out
// during flattening.
type Node struct {
	HostID       string
	HostParentID string
	Title        string
	URL          string
	DateAdded    time.Time
	Index        int
}

// IsFolder reports whether the node is a folder rather than a bookmark
// leaf.
func (n Node) IsFolder() bool {
	return n.URL == ""
}

// Reader obtains the current native bookmark forest.
//
// ReadTree returns nodes in depth-first order, parent before children.
// Structural containers with no semantic meaning (toolbars, root buckets)
// are filtered out while their children are still traversed with the
// grandparent as effective parent.
type Reader interface {
	ReadTree(ctx context.Context) ([]Node, error)

	// Best-effort mutation passthroughs used by the CRUD layer to keep
	// the host tree in sync with in-app edits.
	Create(ctx context.Context, n Node) error
	Update(ctx context.Context, n Node) error
	Remove(ctx context.Context, hostID string) error
}
