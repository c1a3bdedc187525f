package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kalambet/complaintd/internal/storage"
)

const (
	telegramBaseURL = "https://api.telegram.org"
	telegramTimeout = 10 * time.Second
)

// Telegram delivers notifications through the Telegram bot API. A client
// without a bot token or chat id is in the unconfigured state: delivery
// methods are expected to be guarded by Configured.
type Telegram struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewTelegram creates a Telegram notifier. Missing credentials are not an
// error; the client just reports unconfigured.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramBaseURL,
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
	}
}

// NewTelegramWithBaseURL creates a notifier pointing at a custom API host
// (for testing).
func NewTelegramWithBaseURL(botToken, chatID, baseURL string) *Telegram {
	t := NewTelegram(botToken, chatID)
	t.baseURL = baseURL
	return t
}

// Configured reports whether both the bot token and chat id are present.
func (t *Telegram) Configured() bool {
	return t.botToken != "" && t.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers an HTML-formatted message to the configured chat.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if !t.Configured() {
		return fmt.Errorf("telegram notifier is not configured")
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      message,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, telegramTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned HTTP %d", resp.StatusCode)
	}

	var parsed sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram API rejected message: %s", parsed.Description)
	}
	return nil
}

// SendComplaint delivers a formatted notification for a new complaint.
func (t *Telegram) SendComplaint(ctx context.Context, c storage.Complaint, location string) error {
	msg := fmt.Sprintf(
		"🚨 <b>New complaint #%s</b>\n\n"+
			"📝 <b>Text:</b> %s\n\n"+
			"🏷️ <b>Category:</b> %s\n"+
			"😊 <b>Sentiment:</b> %s\n"+
			"📍 <b>IP:</b> %s\n"+
			"🕐 <b>Created:</b> %s",
		c.ID, c.Text, c.Category, c.Sentiment,
		orNA(c.ClientIP), c.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if location != "" {
		msg += fmt.Sprintf("\n🌍 <b>Location:</b> %s", location)
	}
	if c.IsSpam {
		msg += "\n\n⚠️ <b>Spam:</b> yes"
	}
	return t.Send(ctx, msg)
}

// SendDailyReport delivers the 24-hour complaint counts.
func (t *Telegram) SendDailyReport(ctx context.Context, total, open int) error {
	msg := fmt.Sprintf(
		"📊 <b>Daily report</b>\n\n"+
			"📈 <b>Complaints today:</b> %d\n"+
			"🔴 <b>Still open:</b> %d\n"+
			"✅ <b>Handled:</b> %d",
		total, open, total-open,
	)
	return t.Send(ctx, msg)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
