package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Complaint statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Complaint is a stored customer complaint with its enrichment labels.
type Complaint struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	Sentiment string    `json:"sentiment"`
	Category  string    `json:"category"`
	ClientIP  string    `json:"client_ip,omitempty"`
	IsSpam    bool      `json:"is_spam"`
	CreatedAt time.Time `json:"created_at"`
}

// ComplaintUpdate holds a partial update; nil fields are left unchanged.
type ComplaintUpdate struct {
	Status    *string
	Sentiment *string
	Category  *string
}

// ComplaintFilter narrows a listing; empty fields match everything.
type ComplaintFilter struct {
	Status   string
	Category string
	Limit    int
}

// ComplaintSummary aggregates stored complaints along each label dimension.
type ComplaintSummary struct {
	Total       int            `json:"total_complaints"`
	ByStatus    map[string]int `json:"statuses"`
	ByCategory  map[string]int `json:"categories"`
	BySentiment map[string]int `json:"sentiments"`
}

// Job is a queued background task (notification delivery).
type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}
