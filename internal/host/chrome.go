package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"
)

// Chromium's bookmark timestamps count microseconds since 1601-01-01.
const windowsEpochOffsetSeconds = 11644473600

// ChromeReader reads a Chromium-family "Bookmarks" profile file.
//
// The file is a single JSON document with structural roots
// (bookmark_bar, other, synced) that carry no semantic meaning for the
// store; they are filtered during flattening and their children become
// forest roots.
type ChromeReader struct {
	path   string
	logger *log.Logger
}

// NewChromeReader creates a reader over the given Bookmarks file path.
// If logger is nil, a default logger writing to stderr is used.
func NewChromeReader(path string, logger *log.Logger) *ChromeReader {
	if logger == nil {
		logger = log.New(os.Stderr, "[host] ", log.LstdFlags)
	}
	return &ChromeReader{path: path, logger: logger}
}

// chromeNode mirrors one node of the Bookmarks file.
type chromeNode struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"` // "url" or "folder"
	URL       string       `json:"url,omitempty"`
	DateAdded string       `json:"date_added,omitempty"`
	Children  []chromeNode `json:"children,omitempty"`
}

// chromeFile mirrors the top-level Bookmarks document.
type chromeFile struct {
	Roots map[string]chromeNode `json:"roots"`
}

// ReadTree implements Reader.ReadTree.
//
// The structural roots are visited in a fixed order (bookmark_bar, other,
// synced, then anything else alphabetically) so repeated reads of an
// unchanged file yield an identical node sequence.
func (r *ChromeReader) ReadTree(ctx context.Context) ([]Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostUnavailable, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrHostUnavailable, r.path, err)
	}

	var file chromeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrHostUnavailable, r.path, err)
	}
	if len(file.Roots) == 0 {
		return nil, fmt.Errorf("%w: %s has no roots", ErrHostUnavailable, r.path)
	}

	var nodes []Node
	for _, key := range rootOrder(file.Roots) {
		root := file.Roots[key]
		// The root container itself is non-semantic: skip it and attach
		// its children at the forest root.
		for i, child := range root.Children {
			nodes = r.flatten(nodes, child, "", i)
		}
	}
	return nodes, nil
}

// flatten appends node and its descendants depth-first, parent first.
func (r *ChromeReader) flatten(nodes []Node, n chromeNode, parentID string, index int) []Node {
	node := Node{
		HostID:       n.ID,
		HostParentID: parentID,
		Title:        n.Name,
		URL:          n.URL,
		DateAdded:    parseChromeTime(n.DateAdded),
		Index:        index,
	}
	nodes = append(nodes, node)
	for i, child := range n.Children {
		nodes = r.flatten(nodes, child, n.ID, i)
	}
	return nodes
}

// Create implements Reader.Create. Chromium rewrites the Bookmarks file
// wholesale while running, so writing it from outside risks corruption or
// silent loss; the passthrough reports unsupported and the in-app record
// stays authoritative.
func (r *ChromeReader) Create(_ context.Context, n Node) error {
	r.logger.Printf("skipping host create for %q: %v", n.Title, ErrPassthroughUnsupported)
	return ErrPassthroughUnsupported
}

// Update implements Reader.Update.
func (r *ChromeReader) Update(_ context.Context, n Node) error {
	r.logger.Printf("skipping host update for %q: %v", n.Title, ErrPassthroughUnsupported)
	return ErrPassthroughUnsupported
}

// Remove implements Reader.Remove.
func (r *ChromeReader) Remove(_ context.Context, hostID string) error {
	r.logger.Printf("skipping host remove for %s: %v", hostID, ErrPassthroughUnsupported)
	return ErrPassthroughUnsupported
}

// Path returns the watched Bookmarks file location.
func (r *ChromeReader) Path() string {
	return r.path
}

func rootOrder(roots map[string]chromeNode) []string {
	known := []string{"bookmark_bar", "other", "synced"}
	var order []string
	seen := make(map[string]bool)
	for _, k := range known {
		if _, ok := roots[k]; ok {
			order = append(order, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range roots {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// parseChromeTime converts a Chromium microsecond timestamp string.
// Unparseable or absent values yield the zero time; the engine falls back
// to the sync time for those.
func parseChromeTime(s string) time.Time {
	if s == "" || s == "0" {
		return time.Time{}
	}
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil || micros <= 0 {
		return time.Time{}
	}
	secs := micros/1e6 - windowsEpochOffsetSeconds
	rem := micros % 1e6
	return time.Unix(secs, rem*1000).UTC()
}
