package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

// keySpec describes one config key: its file-backend name, its type, the
// environment variable that overrides it, and whether it is a secret.
// Secret keys still load from the file and the environment but are kept
// out of the management surface (`config show` / `config set`).
type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

// The classification and notification keys use their conventional vendor
// env names; service options use the COMPLAINTD_ prefix.
var specs = []keySpec{
	{
		key: "port", typ: kInt, env: "COMPLAINTD_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "data_dir", typ: kString, env: "COMPLAINTD_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log_level", typ: kString, env: "COMPLAINTD_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "api_token", typ: kString, env: "COMPLAINTD_API_TOKEN", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "sentiment_api_key", typ: kString, env: "SENTIMENT_API_KEY", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Classify.SentimentAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Classify.SentimentAPIKey },
	},
	{
		key: "openai_api_key", typ: kString, env: "OPENAI_API_KEY", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Classify.OpenAIAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Classify.OpenAIAPIKey },
	},
	{
		key: "spam_api_key", typ: kString, env: "SPAM_API_KEY", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Classify.SpamAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Classify.SpamAPIKey },
	},
	{
		key: "telegram_bot_token", typ: kString, env: "TELEGRAM_BOT_TOKEN", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Telegram.BotToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Telegram.BotToken },
	},
	{
		key: "telegram_chat_id", typ: kString, env: "TELEGRAM_CHAT_ID",
		apply:   func(cfg *Config, v any) { cfg.Telegram.ChatID = v.(string) },
		extract: func(cfg Config) any { return cfg.Telegram.ChatID },
	},
	{
		key: "sheets_credentials_file", typ: kString, env: "GOOGLE_SHEETS_CREDENTIALS_FILE",
		apply:   func(cfg *Config, v any) { cfg.Sheets.CredentialsFile = v.(string) },
		extract: func(cfg Config) any { return cfg.Sheets.CredentialsFile },
	},
	{
		key: "sheets_spreadsheet_id", typ: kString, env: "GOOGLE_SHEETS_SPREADSHEET_ID",
		apply:   func(cfg *Config, v any) { cfg.Sheets.SpreadsheetID = v.(string) },
		extract: func(cfg Config) any { return cfg.Sheets.SpreadsheetID },
	},
	{
		key: "sheet_name", typ: kString, env: "GOOGLE_SHEET_NAME",
		apply:   func(cfg *Config, v any) { cfg.Sheets.SheetName = v.(string) },
		extract: func(cfg Config) any { return cfg.Sheets.SheetName },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			i, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from %s=%q: %v. Using default value.\n", s.env, raw, err)
				continue
			}
			s.apply(cfg, i)
		}
	}
}
