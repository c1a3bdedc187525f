package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/complaintd/internal/openai"
)

const (
	categoryMaxTokens   = 10
	categoryTemperature = 0.1
)

// Completer is the interface for chat completion used by the category
// classifier.
type Completer interface {
	Complete(ctx context.Context, messages []openai.Message, maxTokens int, temperature float64) (string, error)
}

// CategoryClassifier assigns a complaint category via an LLM completion,
// falling back to the keyword rule engine when the model is unconfigured
// or the call fails. Categorize never fails.
type CategoryClassifier struct {
	client   Completer // nil when no API key is configured
	fallback *KeywordClassifier
}

// NewCategoryClassifier creates a classifier. A nil client deterministically
// selects the keyword fallback for every call.
func NewCategoryClassifier(client Completer, fallback *KeywordClassifier) *CategoryClassifier {
	return &CategoryClassifier{client: client, fallback: fallback}
}

// Categorize returns a category label for text. A model answer outside the
// closed set is coerced to "other"; a failed call (including quota errors)
// degrades to the keyword engine instead.
func (c *CategoryClassifier) Categorize(ctx context.Context, text string) Category {
	if c.client == nil {
		return c.fallback.Category(text)
	}

	messages := []openai.Message{
		{Role: "system", Content: "You are an assistant that categorizes customer complaints."},
		{Role: "user", Content: fmt.Sprintf(
			"Categorize the complaint: %q. Options: technical, payment, other. Answer with exactly one word.", text)},
	}

	answer, err := c.client.Complete(ctx, messages, categoryMaxTokens, categoryTemperature)
	if err != nil {
		if openai.IsQuota(err) {
			slog.Warn("category: model quota exceeded, using keyword fallback")
		} else {
			slog.Warn("category: model call failed, using keyword fallback", "error", err)
		}
		return c.fallback.Category(text)
	}

	label := Category(strings.ToLower(strings.TrimSpace(answer)))
	if !ValidCategory(label) {
		slog.Debug("category: model answer outside the closed set, coercing to other",
			"answer", answer)
		return CategoryOther
	}
	return label
}
