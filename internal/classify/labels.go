package classify

// Sentiment is a closed-set tone label for a complaint text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	// SentimentUnknown is reserved for paths where no classifier could run.
	// The keyword fallback always runs, so it never appears in practice.
	SentimentUnknown Sentiment = "unknown"
)

// ValidSentiment reports whether s is one of the closed set of labels
// produced by classification (unknown excluded).
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Category is a closed-set complaint category label.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryPayment   Category = "payment"
	CategoryOther     Category = "other"
)

// ValidCategory reports whether c is one of the closed set of categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTechnical, CategoryPayment, CategoryOther:
		return true
	}
	return false
}

// SpamVerdict is the advisory spam-scoring result. The zero-ish default
// {false, 0} is used whenever the spam service is unavailable.
type SpamVerdict struct {
	IsSpam bool    `json:"is_spam"`
	Score  float64 `json:"score"`
}

// Result aggregates one enrichment pass over a complaint text.
type Result struct {
	Sentiment Sentiment   `json:"sentiment"`
	Category  Category    `json:"category"`
	Spam      SpamVerdict `json:"spam"`
}
