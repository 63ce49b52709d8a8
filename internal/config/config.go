package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level

	// CRM adapter
	CRMURL string

	// Sheets sink
	SheetsCredentialsFile string
	SpreadsheetID         string
	WorksheetName         string

	// Chat sink + inbound slash commands
	ChatURL       string
	ChatSecret    string
	SigningSecret string

	// Manual count store: "memory" | "file" | "sqlite"
	StoreDriver string
	StorePath   string

	// Channel resolution rules (YAML); built-in defaults when empty
	ChannelRulesFile string

	// Daily schedule
	Timezone     string
	ReportHour   int
	ReportMinute int
}

func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		Port:                  envOr("PORT", "8080"),
		HTTPTimeout:           to,
		LogLevel:              lvl,
		CRMURL:                os.Getenv("CRM_API_URL"),
		SheetsCredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SpreadsheetID:         os.Getenv("GOOGLE_SPREADSHEET_ID"),
		WorksheetName:         envOr("GOOGLE_WORKSHEET_NAME", "BizDev"),
		ChatURL:               os.Getenv("CHAT_SINK_URL"),
		ChatSecret:            os.Getenv("CHAT_SINK_SECRET"),
		SigningSecret:         os.Getenv("SLACK_SIGNING_SECRET"),
		StoreDriver:           envOr("MANUAL_STORE_DRIVER", "file"),
		StorePath:             envOr("MANUAL_STORE_PATH", "data/manual_counts.json"),
		ChannelRulesFile:      os.Getenv("CHANNEL_RULES_FILE"),
		Timezone:              envOr("REPORT_TZ", "UTC"),
		ReportHour:            intOr("REPORT_HOUR", 9),
		ReportMinute:          intOr("REPORT_MINUTE", 0),
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func intOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
