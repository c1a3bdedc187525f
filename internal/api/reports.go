package api

import (
	"net/http"
	"time"

	"github.com/kalambet/complaintd/internal/storage"
)

func handleTelegramTest(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Telegram.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "telegram notifier is not configured")
			return
		}

		err := deps.Telegram.Send(r.Context(),
			"🧪 <b>Test notification</b>\n\n✅ Telegram integration is working!")
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "failed to send test notification: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Telegram notification sent",
		})
	}
}

func handleDailyReport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Telegram.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "telegram notifier is not configured")
			return
		}

		since := time.Now().UTC().Add(-24 * time.Hour)
		total, err := deps.Store.CountComplaintsSince(since, "")
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to count complaints: %v", err)
			return
		}
		open, err := deps.Store.CountComplaintsSince(since, storage.StatusOpen)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to count open complaints: %v", err)
			return
		}

		if err := deps.Telegram.SendDailyReport(r.Context(), total, open); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "failed to send daily report: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Daily report sent",
			"data": map[string]int{
				"total_complaints": total,
				"open_complaints":  open,
			},
		})
	}
}

func handleSheetsSetup(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Sheets.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sheets sink is not configured")
			return
		}

		if err := deps.Sheets.EnsureHeaders(r.Context()); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "failed to set up sheet: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Sheet headers created",
		})
	}
}

func handleSheetsSummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Sheets.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sheets sink is not configured")
			return
		}

		summary, err := deps.Sheets.Summary(r.Context())
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "failed to read sheet summary: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   summary,
		})
	}
}

func handleSheetsExport(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Sheets.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sheets sink is not configured")
			return
		}

		complaints, err := deps.Store.ListComplaints(storage.ComplaintFilter{Limit: 10000})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list complaints: %v", err)
			return
		}

		exported := 0
		for _, c := range complaints {
			if err := deps.Sheets.AppendComplaint(r.Context(), c); err != nil {
				// Export continues past individual row failures; the counts
				// in the response show what landed.
				continue
			}
			exported++
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]int{
				"total_complaints": len(complaints),
				"exported_count":   exported,
			},
		})
	}
}
