package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	sentimentBaseURL = "https://api.apilayer.com/sentiment/analysis"
	sentimentTimeout = 10 * time.Second
)

// SentimentAnalyzer classifies tone via the APILayer sentiment API, falling
// back to the keyword rule engine whenever the API is unconfigured,
// unreachable, or returns something unusable. Analyze never fails.
type SentimentAnalyzer struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	fallback   *KeywordClassifier
}

// NewSentimentAnalyzer creates an analyzer. An empty apiKey deterministically
// selects the keyword fallback for every call.
func NewSentimentAnalyzer(apiKey string, fallback *KeywordClassifier) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		apiKey:  apiKey,
		baseURL: sentimentBaseURL,
		httpClient: &http.Client{
			Timeout: sentimentTimeout,
		},
		fallback: fallback,
	}
}

// NewSentimentAnalyzerWithBaseURL creates an analyzer pointing at a custom
// endpoint (for testing).
func NewSentimentAnalyzerWithBaseURL(apiKey, baseURL string, fallback *KeywordClassifier) *SentimentAnalyzer {
	a := NewSentimentAnalyzer(apiKey, fallback)
	a.baseURL = baseURL
	return a
}

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
	Result    string `json:"result"`
}

// Analyze returns a sentiment label for text. Single attempt against the
// API; every failure path degrades to the keyword engine.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, text string) Sentiment {
	if a.apiKey == "" {
		return a.fallback.Sentiment(text)
	}

	ctx, cancel := context.WithTimeout(ctx, sentimentTimeout)
	defer cancel()

	body, err := json.Marshal(sentimentRequest{Text: text})
	if err != nil {
		slog.Warn("sentiment: marshaling request failed", "error", err)
		return a.fallback.Sentiment(text)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		slog.Warn("sentiment: creating request failed", "error", err)
		return a.fallback.Sentiment(text)
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		slog.Warn("sentiment: API call failed, using keyword fallback", "error", err)
		return a.fallback.Sentiment(text)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("sentiment: API returned non-success status, using keyword fallback",
			"status", resp.StatusCode)
		return a.fallback.Sentiment(text)
	}

	var parsed sentimentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Warn("sentiment: decoding response failed, using keyword fallback", "error", err)
		return a.fallback.Sentiment(text)
	}

	// The vendor embeds some errors in 200 responses.
	if strings.Contains(parsed.Result, "Unable to evaluate expression") {
		slog.Debug("sentiment: API could not evaluate text, using keyword fallback")
		return a.fallback.Sentiment(text)
	}

	label := Sentiment(strings.ToLower(parsed.Sentiment))
	if !ValidSentiment(label) {
		slog.Warn("sentiment: API returned label outside the closed set, using keyword fallback",
			"label", parsed.Sentiment)
		return a.fallback.Sentiment(text)
	}
	return label
}
