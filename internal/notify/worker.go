package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/complaintd/internal/geo"
	"github.com/kalambet/complaintd/internal/storage"
)

// Job types handled by the notification worker.
const (
	JobNotifyTelegram = "notify_telegram"
	JobNotifySheets   = "notify_sheets"
)

// ComplaintPayload is the job payload carried through the queue.
type ComplaintPayload struct {
	Complaint storage.Complaint `json:"complaint"`
}

// JobStore abstracts the job queue operations.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
}

// JobEnqueuer abstracts job submission.
type JobEnqueuer interface {
	EnqueueJob(job storage.Job) error
}

// TelegramSink delivers complaint notifications to a chat.
type TelegramSink interface {
	Configured() bool
	SendComplaint(ctx context.Context, c storage.Complaint, location string) error
}

// SheetSink appends complaint rows to a spreadsheet.
type SheetSink interface {
	Configured() bool
	AppendComplaint(ctx context.Context, c storage.Complaint) error
}

// GeoLookup resolves a client IP to a displayable location, best effort.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) geo.Location
}

// Dispatch enqueues the fire-and-forget notification jobs for a stored
// complaint. The request handler only submits; delivery happens in the
// worker with its own error handling, so a sink outage never reaches the
// request's response path.
func Dispatch(store JobEnqueuer, c storage.Complaint) error {
	payload, err := json.Marshal(ComplaintPayload{Complaint: c})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	for _, jobType := range []string{JobNotifyTelegram, JobNotifySheets} {
		job := storage.Job{
			ID:          uuid.New().String(),
			Type:        jobType,
			PayloadJSON: string(payload),
		}
		if err := store.EnqueueJob(job); err != nil {
			return fmt.Errorf("enqueueing %s: %w", jobType, err)
		}
	}
	return nil
}

// Worker processes notification jobs from the SQLite job queue.
type Worker struct {
	store    JobStore
	telegram TelegramSink
	sheets   SheetSink
	geo      GeoLookup // optional; nil skips location annotation
	poll     time.Duration
	logger   *slog.Logger
}

// NewWorker creates a Worker with the given dependencies.
// If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, telegram TelegramSink, sheets SheetSink, geo GeoLookup, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:    store,
		telegram: telegram,
		sheets:   sheets,
		geo:      geo,
		poll:     pollInterval,
		logger:   slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single notification job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobNotifyTelegram, JobNotifySheets})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("notification job failed", "job_id", job.ID, "type", job.Type, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		w.logger.Error("failed to mark job as completed", "job_id", job.ID, "error", err)
	}
	return true, nil
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) error {
	var payload ComplaintPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}

	switch job.Type {
	case JobNotifyTelegram:
		if !w.telegram.Configured() {
			w.logger.Debug("telegram not configured, skipping notification", "complaint_id", payload.Complaint.ID)
			return nil
		}
		// Location annotation happens here, off the request path.
		var location string
		if w.geo != nil {
			location = w.geo.Lookup(ctx, payload.Complaint.ClientIP).String()
		}
		return w.telegram.SendComplaint(ctx, payload.Complaint, location)

	case JobNotifySheets:
		if !w.sheets.Configured() {
			w.logger.Debug("sheets not configured, skipping append", "complaint_id", payload.Complaint.ID)
			return nil
		}
		return w.sheets.AppendComplaint(ctx, payload.Complaint)

	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}
