package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/complaintd/internal/storage"
)

func TestTelegramConfigured(t *testing.T) {
	cases := []struct {
		token, chat string
		want        bool
	}{
		{"", "", false},
		{"token", "", false},
		{"", "123", false},
		{"token", "123", true},
	}
	for _, c := range cases {
		tg := NewTelegram(c.token, c.chat)
		if got := tg.Configured(); got != c.want {
			t.Errorf("Configured(token=%q, chat=%q) = %v, want %v", c.token, c.chat, got, c.want)
		}
	}
}

func TestTelegramSend(t *testing.T) {
	var captured sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/botsecret-token/sendMessage") {
			t.Errorf("path = %q, want bot token route", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegramWithBaseURL("secret-token", "-100123", srv.URL)
	if err := tg.Send(context.Background(), "<b>hello</b>"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if captured.ChatID != "-100123" {
		t.Errorf("chat_id = %q, want -100123", captured.ChatID)
	}
	if captured.Text != "<b>hello</b>" {
		t.Errorf("text = %q", captured.Text)
	}
	if captured.ParseMode != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", captured.ParseMode)
	}
}

func TestTelegramSend_Unconfigured(t *testing.T) {
	tg := NewTelegram("", "")
	if err := tg.Send(context.Background(), "hi"); err == nil {
		t.Error("Send on unconfigured client should fail")
	}
}

func TestTelegramSend_APIRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegramWithBaseURL("token", "123", srv.URL)
	err := tg.Send(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Send = %v, want rejection with description", err)
	}
}

func TestTelegramSendComplaint_Format(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		text = req.Text
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegramWithBaseURL("token", "123", srv.URL)
	c := storage.Complaint{
		ID:        "abc-123",
		Text:      "сайт не работает",
		Category:  "technical",
		Sentiment: "negative",
		ClientIP:  "203.0.113.7",
		IsSpam:    true,
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	if err := tg.SendComplaint(context.Background(), c, "Moscow, Russia"); err != nil {
		t.Fatalf("SendComplaint: %v", err)
	}

	for _, want := range []string{
		"New complaint #abc-123",
		"сайт не работает",
		"technical",
		"negative",
		"203.0.113.7",
		"Moscow, Russia",
		"Spam:</b> yes",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestTelegramSendComplaint_OmitsEmptyLocation(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		text = req.Text
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegramWithBaseURL("token", "123", srv.URL)
	c := storage.Complaint{ID: "c1", Text: "текст", CreatedAt: time.Now()}
	if err := tg.SendComplaint(context.Background(), c, ""); err != nil {
		t.Fatalf("SendComplaint: %v", err)
	}

	if strings.Contains(text, "Location") {
		t.Errorf("message should omit the location line:\n%s", text)
	}
	if !strings.Contains(text, "N/A") {
		t.Errorf("empty client IP should render as N/A:\n%s", text)
	}
	if strings.Contains(text, "Spam") {
		t.Errorf("non-spam complaint should omit the spam line:\n%s", text)
	}
}

func TestTelegramSendDailyReport(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		text = req.Text
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegramWithBaseURL("token", "123", srv.URL)
	if err := tg.SendDailyReport(context.Background(), 10, 4); err != nil {
		t.Fatalf("SendDailyReport: %v", err)
	}

	for _, want := range []string{"Daily report", "10", "4", "6"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}
