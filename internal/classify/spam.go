package classify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	spamBaseURL = "https://api.api-ninjas.com/v1/spamcheck"
	spamTimeout = 10 * time.Second
)

// SpamChecker scores texts via the API Ninjas spamcheck endpoint. The
// verdict is advisory: it annotates notifications and never blocks
// ingestion, so every failure path collapses to the neutral verdict.
type SpamChecker struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSpamChecker creates a checker. An empty apiKey makes Check return the
// neutral verdict for every call.
func NewSpamChecker(apiKey string) *SpamChecker {
	return &SpamChecker{
		apiKey:  apiKey,
		baseURL: spamBaseURL,
		httpClient: &http.Client{
			Timeout: spamTimeout,
		},
	}
}

// NewSpamCheckerWithBaseURL creates a checker pointing at a custom endpoint
// (for testing).
func NewSpamCheckerWithBaseURL(apiKey, baseURL string) *SpamChecker {
	c := NewSpamChecker(apiKey)
	c.baseURL = baseURL
	return c
}

// Check returns the vendor's verdict for text, or the neutral {false, 0}
// when the service is unconfigured or the call fails.
func (c *SpamChecker) Check(ctx context.Context, text string) SpamVerdict {
	if c.apiKey == "" {
		return SpamVerdict{}
	}

	ctx, cancel := context.WithTimeout(ctx, spamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?text="+url.QueryEscape(text), nil)
	if err != nil {
		slog.Warn("spam: creating request failed", "error", err)
		return SpamVerdict{}
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("spam: API call failed, using neutral verdict", "error", err)
		return SpamVerdict{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("spam: API returned non-success status, using neutral verdict",
			"status", resp.StatusCode)
		return SpamVerdict{}
	}

	// Vendor payload passes through untouched; no local score validation.
	var verdict SpamVerdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		slog.Warn("spam: decoding response failed, using neutral verdict", "error", err)
		return SpamVerdict{}
	}
	return verdict
}
