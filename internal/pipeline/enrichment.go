package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/complaintd/internal/classify"
)

// SentimentAnalyzer classifies the tone of a complaint text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) classify.Sentiment
}

// CategoryClassifier assigns a complaint category.
type CategoryClassifier interface {
	Categorize(ctx context.Context, text string) classify.Category
}

// SpamChecker produces an advisory spam verdict.
type SpamChecker interface {
	Check(ctx context.Context, text string) classify.SpamVerdict
}

// Enricher runs the three classifiers over one complaint text. The calls
// are independent, so they execute concurrently; each classifier owns its
// fallback, so Enrich always returns a fully-populated result and never
// fails.
type Enricher struct {
	sentiment SentimentAnalyzer
	category  CategoryClassifier
	spam      SpamChecker
}

// NewEnricher creates an Enricher wired to the three classifiers.
func NewEnricher(sentiment SentimentAnalyzer, category CategoryClassifier, spam SpamChecker) *Enricher {
	return &Enricher{
		sentiment: sentiment,
		category:  category,
		spam:      spam,
	}
}

// Enrich classifies text on all three dimensions concurrently and combines
// the results. End-to-end latency is bounded by the slowest single call.
func (e *Enricher) Enrich(ctx context.Context, text string) classify.Result {
	start := time.Now()

	var result classify.Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Sentiment = e.sentiment.Analyze(ctx, text)
		return nil
	})
	g.Go(func() error {
		result.Category = e.category.Categorize(ctx, text)
		return nil
	})
	g.Go(func() error {
		result.Spam = e.spam.Check(ctx, text)
		return nil
	})
	// Classifiers never return errors; Wait only synchronizes.
	_ = g.Wait()

	slog.Debug("enrichment complete",
		"sentiment", result.Sentiment,
		"category", result.Category,
		"is_spam", result.Spam.IsSpam,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
