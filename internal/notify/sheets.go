package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/kalambet/complaintd/internal/storage"
)

var sheetHeaders = []string{
	"ID", "Text", "Category", "Sentiment", "Status", "Client IP", "Created At", "Spam",
}

// Sheets appends complaint rows to a Google spreadsheet. Initialization
// failures leave the client in the unconfigured state instead of failing:
// the spreadsheet is a best-effort reporting surface.
type Sheets struct {
	service       *sheets.Service // nil when unconfigured
	spreadsheetID string
	sheetName     string
}

// SheetsConfig holds the spreadsheet coordinates and the service-account
// credentials file.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

// NewSheets creates a Sheets sink. Missing credentials or spreadsheet id
// yield an unconfigured client; an unreadable key file is logged and also
// degrades to unconfigured.
func NewSheets(ctx context.Context, cfg SheetsConfig) *Sheets {
	s := &Sheets{
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}
	if cfg.CredentialsFile == "" || cfg.SpreadsheetID == "" {
		return s
	}

	jsonKey, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		slog.Warn("sheets: reading credentials file failed, sink disabled", "error", err)
		return s
	}
	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
	if err != nil {
		slog.Warn("sheets: parsing service account key failed, sink disabled", "error", err)
		return s
	}

	httpClient := oauth2.NewClient(ctx, jwtConfig.TokenSource(ctx))
	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		slog.Warn("sheets: creating service failed, sink disabled", "error", err)
		return s
	}

	s.service = service
	return s
}

// Configured reports whether the sink can reach a spreadsheet.
func (s *Sheets) Configured() bool {
	return s.service != nil
}

// EnsureHeaders writes the header row if the sheet doesn't have one yet.
func (s *Sheets) EnsureHeaders(ctx context.Context) error {
	if !s.Configured() {
		return fmt.Errorf("sheets sink is not configured")
	}

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+"!A1:H1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) >= len(sheetHeaders) {
		return nil
	}

	row := make([]any, len(sheetHeaders))
	for i, h := range sheetHeaders {
		row[i] = h
	}
	_, err = s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, s.sheetName+"!A1:H1", &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}
	return nil
}

// AppendComplaint appends one complaint row, creating headers as needed.
func (s *Sheets) AppendComplaint(ctx context.Context, c storage.Complaint) error {
	if !s.Configured() {
		return fmt.Errorf("sheets sink is not configured")
	}

	if err := s.EnsureHeaders(ctx); err != nil {
		return err
	}

	spam := "no"
	if c.IsSpam {
		spam = "yes"
	}
	row := []any{
		c.ID, c.Text, c.Category, c.Sentiment, c.Status,
		c.ClientIP, c.CreatedAt.UTC().Format("2006-01-02 15:04:05"), spam,
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A:H", &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}

// Summary aggregates the sheet's rows by category, sentiment and status.
func (s *Sheets) Summary(ctx context.Context) (storage.ComplaintSummary, error) {
	if !s.Configured() {
		return storage.ComplaintSummary{}, fmt.Errorf("sheets sink is not configured")
	}

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.sheetName+"!A:H").
		Context(ctx).Do()
	if err != nil {
		return storage.ComplaintSummary{}, fmt.Errorf("reading sheet: %w", err)
	}

	summary := storage.ComplaintSummary{
		ByStatus:    make(map[string]int),
		ByCategory:  make(map[string]int),
		BySentiment: make(map[string]int),
	}
	if len(resp.Values) <= 1 {
		return summary, nil
	}

	// First row is the header.
	for _, row := range resp.Values[1:] {
		if len(row) < 5 {
			continue
		}
		summary.Total++
		summary.ByCategory[cellString(row[2])]++
		summary.BySentiment[cellString(row[3])]++
		summary.ByStatus[cellString(row[4])]++
	}
	return summary, nil
}

func cellString(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return "unknown"
	}
	return s
}
