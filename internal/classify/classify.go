// Package classify provides the AI classification capability: given a
// bookmark, suggest a category, tags, and a short summary.
//
// Classification is consumed as a best-effort enrichment step. Failures
// are typed so callers can decide whether to surface them (explicit user
// request) or just log them (background auto-classify).
package classify

import (
	"context"
	"errors"

	"github.com/sidemark/sidemark/internal/types"
)

// ErrUnusable is returned when the provider responded but the payload
// could not be turned into a suggestion.
var ErrUnusable = errors.New("classification response unusable")

// Suggestion is the provider's proposed metadata for one bookmark.
type Suggestion struct {
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Classifier produces metadata suggestions for bookmarks.
type Classifier interface {
	Classify(ctx context.Context, b types.Bookmark) (Suggestion, error)
}
