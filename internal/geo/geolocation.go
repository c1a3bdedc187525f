package geo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "http://ip-api.com/json"
	lookupTimeout  = 10 * time.Second
)

// Location is the subset of the ip-api.com payload used to annotate
// notifications. The zero value means "unknown".
type Location struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// String renders "City, Country" with whichever parts are known.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.Country != "":
		return l.Country
	default:
		return ""
	}
}

// Client resolves IP addresses to coarse locations. Lookups are best
// effort: any failure yields the zero Location.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a geolocation client.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: lookupTimeout,
		},
	}
}

// NewWithBaseURL creates a client pointing at a custom endpoint (for testing).
func NewWithBaseURL(baseURL string) *Client {
	c := New()
	c.baseURL = baseURL
	return c
}

// Lookup resolves ip. Never fails; private addresses, transport errors and
// vendor failures all yield the zero Location.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	if ip == "" {
		return Location{}
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+ip, nil)
	if err != nil {
		slog.Debug("geo: creating request failed", "error", err)
		return Location{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("geo: lookup failed", "ip", ip, "error", err)
		return Location{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("geo: lookup returned non-success status", "ip", ip, "status", resp.StatusCode)
		return Location{}
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		slog.Debug("geo: decoding response failed", "error", err)
		return Location{}
	}
	if loc.Status != "success" {
		return Location{}
	}
	return loc
}
