package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sidemark/sidemark/internal/types"
)

const classifyPrompt = `You are organizing a browser bookmark collection.
Given a bookmark, respond with a single JSON object and nothing else:

{"category": "<one short category name>", "tags": ["<up to 5 short tags>"], "summary": "<one sentence>", "confidence": <0.0-1.0>}

Bookmark title: %s
Bookmark URL: %s
Bookmark description: %s`

// Anthropic classifies bookmarks through the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic creates a classifier using the given API key and model
// name (e.g. "claude-3-5-haiku-latest").
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}
}

// Classify implements Classifier.
func (a *Anthropic) Classify(ctx context.Context, b types.Bookmark) (Suggestion, error) {
	prompt := fmt.Sprintf(classifyPrompt, b.Title, b.URL, b.Description)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("anthropic request: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(v.Text)
		}
	}

	return parseSuggestion(sb.String())
}

// parseSuggestion extracts the JSON object from the model's reply, which
// may be wrapped in code fences or prose.
func parseSuggestion(text string) (Suggestion, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Suggestion{}, fmt.Errorf("%w: no JSON object in reply", ErrUnusable)
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUnusable, err)
	}
	if s.Category == "" && len(s.Tags) == 0 && s.Summary == "" {
		return Suggestion{}, fmt.Errorf("%w: empty suggestion", ErrUnusable)
	}
	if s.Confidence < 0 {
		s.Confidence = 0
	}
	if s.Confidence > 1 {
		s.Confidence = 1
	}
	return s, nil
}
