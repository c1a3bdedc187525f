package config

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Log      LogConfig
	Classify ClassifyConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
}

type ServerConfig struct {
	Port     int
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

// ClassifyConfig holds the enrichment API credentials. Every key is
// optional: an empty key selects that classifier's fallback path and is
// never an error.
type ClassifyConfig struct {
	SentimentAPIKey string
	OpenAIAPIKey    string
	SpamAPIKey      string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Sheets: SheetsConfig{
			SheetName: "Complaints",
		},
	}
}

// Load reads configuration from the JSON file backend
// ($XDG_CONFIG_HOME/complaintd/config.json) with environment variables
// taking precedence. Missing API keys are not an error; they select the
// corresponding fallback or no-op path.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	return cfg, nil
}
