package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/complaintd/internal/classify"
	"github.com/kalambet/complaintd/internal/notify"
	"github.com/kalambet/complaintd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Enricher runs the classification pipeline over a complaint text.
type Enricher interface {
	Enrich(ctx context.Context, text string) classify.Result
}

// TelegramReporter is the management-surface view of the Telegram sink.
type TelegramReporter interface {
	Configured() bool
	Send(ctx context.Context, message string) error
	SendDailyReport(ctx context.Context, total, open int) error
}

// SheetsReporter is the management-surface view of the spreadsheet sink.
type SheetsReporter interface {
	Configured() bool
	EnsureHeaders(ctx context.Context) error
	AppendComplaint(ctx context.Context, c storage.Complaint) error
	Summary(ctx context.Context) (storage.ComplaintSummary, error)
}

// Deps holds the handler dependencies.
type Deps struct {
	Store    *storage.Store
	Enricher Enricher
	Telegram TelegramReporter
	Sheets   SheetsReporter
	Token    string // optional; empty leaves management routes unguarded
}

// NewHandler builds the complaintd HTTP router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth())

	r.Post("/complaints", handleCreateComplaint(deps))
	r.Get("/complaints", handleListComplaints(deps))
	r.Get("/complaints/recent", handleRecentComplaints(deps))
	r.Get("/complaints/{id}", handleGetComplaint(deps))
	r.Put("/complaints/{id}", handleUpdateComplaint(deps))

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		} else {
			slog.Warn("no API token configured, management routes are unguarded")
		}
		r.Post("/telegram/test", handleTelegramTest(deps))
		r.Post("/telegram/daily-report", handleDailyReport(deps))
		r.Post("/sheets/setup", handleSheetsSetup(deps))
		r.Get("/sheets/summary", handleSheetsSummary(deps))
		r.Post("/sheets/export", handleSheetsExport(deps))
	})

	return r
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type createComplaintRequest struct {
	Text string `json:"text"`
}

func handleCreateComplaint(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req createComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "text is required")
			return
		}

		// Classification never fails; worst case is keyword-engine quality.
		result := deps.Enricher.Enrich(r.Context(), req.Text)

		complaint := storage.Complaint{
			ID:        uuid.New().String(),
			Text:      req.Text,
			Status:    storage.StatusOpen,
			Sentiment: string(result.Sentiment),
			Category:  string(result.Category),
			ClientIP:  clientIP(r),
			IsSpam:    result.Spam.IsSpam,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.SaveComplaint(complaint); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save complaint: %v", err)
			return
		}

		// Notification delivery is best effort and must not affect the
		// response; a failed enqueue is only logged.
		if err := notify.Dispatch(deps.Store, complaint); err != nil {
			slog.Warn("failed to enqueue notifications", "complaint_id", complaint.ID, "error", err)
		}

		writeJSON(w, http.StatusCreated, complaint)
	}
}

func handleListComplaints(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := storage.ComplaintFilter{
			Status:   r.URL.Query().Get("status"),
			Category: r.URL.Query().Get("category"),
			Limit:    parseIntParam(r, "limit", 100, 1000),
		}

		complaints, err := deps.Store.ListComplaints(filter)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list complaints: %v", err)
			return
		}
		if complaints == nil {
			complaints = []storage.Complaint{}
		}
		writeJSON(w, http.StatusOK, complaints)
	}
}

func handleRecentComplaints(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hours := parseIntParam(r, "hours", 1, 24*30)
		status := r.URL.Query().Get("status")
		if status == "" {
			status = storage.StatusOpen
		}

		since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		complaints, err := deps.Store.ListComplaintsSince(since, status)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list recent complaints: %v", err)
			return
		}
		if complaints == nil {
			complaints = []storage.Complaint{}
		}
		writeJSON(w, http.StatusOK, complaints)
	}
}

func handleGetComplaint(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		complaint, err := deps.Store.GetComplaint(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "complaint not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get complaint: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, complaint)
	}
}

type updateComplaintRequest struct {
	Status    *string `json:"status"`
	Sentiment *string `json:"sentiment"`
	Category  *string `json:"category"`
}

func handleUpdateComplaint(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req updateComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		complaint, err := deps.Store.UpdateComplaint(id, storage.ComplaintUpdate{
			Status:    req.Status,
			Sentiment: req.Sentiment,
			Category:  req.Category,
		})
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "complaint not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update complaint: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, complaint)
	}
}
