package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kalambet/complaintd/internal/geo"
	"github.com/kalambet/complaintd/internal/storage"
)

type fakeTelegram struct {
	configured   bool
	err          error
	sent         []storage.Complaint
	lastLocation string
}

func (f *fakeTelegram) Configured() bool { return f.configured }

func (f *fakeTelegram) SendComplaint(ctx context.Context, c storage.Complaint, location string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, c)
	f.lastLocation = location
	return nil
}

type fakeSheets struct {
	configured bool
	err        error
	appended   []storage.Complaint
}

func (f *fakeSheets) Configured() bool { return f.configured }

func (f *fakeSheets) AppendComplaint(ctx context.Context, c storage.Complaint) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, c)
	return nil
}

type fakeGeo struct {
	loc geo.Location
}

func (f *fakeGeo) Lookup(ctx context.Context, ip string) geo.Location { return f.loc }

func workerStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDispatch_EnqueuesBothJobTypes(t *testing.T) {
	s := workerStore(t)

	c := storage.Complaint{ID: "c1", Text: "текст", CreatedAt: time.Now().UTC()}
	if err := Dispatch(s, c); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		job, err := s.ClaimNextJob([]string{JobNotifyTelegram, JobNotifySheets})
		if err != nil {
			t.Fatalf("ClaimNextJob: %v", err)
		}
		if job == nil {
			t.Fatalf("claim %d returned nil, want a job", i)
		}
		seen[job.Type] = true

		var payload ComplaintPayload
		if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
			t.Fatalf("unmarshaling payload: %v", err)
		}
		if payload.Complaint.ID != "c1" {
			t.Errorf("payload complaint = %q, want c1", payload.Complaint.ID)
		}
	}

	if !seen[JobNotifyTelegram] || !seen[JobNotifySheets] {
		t.Errorf("job types = %v, want both telegram and sheets", seen)
	}
}

func TestWorker_DeliversTelegramWithLocation(t *testing.T) {
	s := workerStore(t)
	tg := &fakeTelegram{configured: true}
	sheets := &fakeSheets{configured: true}
	g := &fakeGeo{loc: geo.Location{Status: "success", Country: "Russia", City: "Moscow"}}

	c := storage.Complaint{ID: "c1", Text: "текст", ClientIP: "203.0.113.7", CreatedAt: time.Now().UTC()}
	if err := Dispatch(s, c); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	w := NewWorker(s, tg, sheets, g, time.Millisecond)
	for i := 0; i < 2; i++ {
		if done, err := w.RunOnce(context.Background()); err != nil || !done {
			t.Fatalf("RunOnce #%d = (%v, %v), want processed job", i, done, err)
		}
	}

	if len(tg.sent) != 1 {
		t.Fatalf("telegram received %d complaints, want 1", len(tg.sent))
	}
	if tg.lastLocation != "Moscow, Russia" {
		t.Errorf("location = %q, want %q", tg.lastLocation, "Moscow, Russia")
	}
	if len(sheets.appended) != 1 {
		t.Fatalf("sheets received %d complaints, want 1", len(sheets.appended))
	}
}

func TestWorker_NilGeoSkipsLocation(t *testing.T) {
	s := workerStore(t)
	tg := &fakeTelegram{configured: true}

	if err := Dispatch(s, storage.Complaint{ID: "c1", ClientIP: "203.0.113.7"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	w := NewWorker(s, tg, &fakeSheets{}, nil, time.Millisecond)
	for i := 0; i < 2; i++ {
		w.RunOnce(context.Background())
	}

	if len(tg.sent) != 1 {
		t.Fatalf("telegram received %d complaints, want 1", len(tg.sent))
	}
	if tg.lastLocation != "" {
		t.Errorf("location = %q, want empty without a geo client", tg.lastLocation)
	}
}

func TestWorker_UnconfiguredSinksCompleteQuietly(t *testing.T) {
	s := workerStore(t)

	if err := Dispatch(s, storage.Complaint{ID: "c1"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	w := NewWorker(s, &fakeTelegram{configured: false}, &fakeSheets{configured: false}, nil, time.Millisecond)
	for i := 0; i < 2; i++ {
		if done, err := w.RunOnce(context.Background()); err != nil || !done {
			t.Fatalf("RunOnce #%d = (%v, %v), want quiet completion", i, done, err)
		}
	}

	// Both jobs are completed no-ops: nothing left to claim.
	job, err := s.ClaimNextJob([]string{JobNotifyTelegram, JobNotifySheets})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if job != nil {
		t.Errorf("leftover job %+v, want empty queue", job)
	}
}

func TestWorker_SinkFailureRequeuesJob(t *testing.T) {
	s := workerStore(t)
	tg := &fakeTelegram{configured: true, err: errors.New("telegram 502")}

	if err := Dispatch(s, storage.Complaint{ID: "c1"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	w := NewWorker(s, tg, &fakeSheets{configured: false}, nil, time.Millisecond)
	for i := 0; i < 2; i++ {
		if done, _ := w.RunOnce(context.Background()); !done {
			t.Fatalf("RunOnce #%d processed nothing", i)
		}
	}

	// The telegram job failed and sits in backoff; the sheets job is done.
	if done, err := w.RunOnce(context.Background()); err != nil || done {
		t.Errorf("RunOnce after failure = (%v, %v), want idle (job in backoff)", done, err)
	}
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	s := workerStore(t)
	w := NewWorker(s, &fakeTelegram{}, &fakeSheets{}, nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
