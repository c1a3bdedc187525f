package classify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpamCheck_NoKeyIsNeutral(t *testing.T) {
	c := NewSpamChecker("")

	for _, text := range []string{"", "купите дешево", "обычная жалоба"} {
		got := c.Check(context.Background(), text)
		if got.IsSpam || got.Score != 0 {
			t.Errorf("Check(%q) = %+v, want neutral verdict", text, got)
		}
	}
}

func TestSpamCheck_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("text"); got != "купите дешево" {
			t.Errorf("text param = %q, want %q", got, "купите дешево")
		}
		w.Write([]byte(`{"is_spam": true, "score": 0.93}`))
	}))
	defer srv.Close()

	c := NewSpamCheckerWithBaseURL("test-key", srv.URL)
	got := c.Check(context.Background(), "купите дешево")
	if !got.IsSpam {
		t.Error("IsSpam = false, want true")
	}
	if got.Score != 0.93 {
		t.Errorf("Score = %v, want 0.93", got.Score)
	}
}

func TestSpamCheck_APIErrorIsNeutral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewSpamCheckerWithBaseURL("test-key", srv.URL)
	got := c.Check(context.Background(), "текст")
	if got.IsSpam || got.Score != 0 {
		t.Errorf("Check = %+v, want neutral verdict on API error", got)
	}
}

func TestSpamCheck_UnreachableIsNeutral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewSpamCheckerWithBaseURL("test-key", srv.URL)
	got := c.Check(context.Background(), "текст")
	if got.IsSpam || got.Score != 0 {
		t.Errorf("Check = %+v, want neutral verdict when unreachable", got)
	}
}
