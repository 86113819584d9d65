package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/barbershop/internal/calendar"
	"github.com/mamadbah2/barbershop/internal/service/targets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
	Targets   TargetsConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// Messaging is disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether outbound messages can be sent.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != ""
}

// SheetsConfig contains configuration required to export results to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether both the credentials and the target spreadsheet are set.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// SchedulerConfig holds the cron jobs settings.
type SchedulerConfig struct {
	DigestSchedule string
	ExportSchedule string
	Timezone       string
}

// Location resolves the configured timezone.
func (s SchedulerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// TargetsConfig selects how daily targets and rankings are computed.
type TargetsConfig struct {
	CalendarPolicy  string
	Strategy        string
	LeaderboardSize int
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		_ = godotenv.Load()
	}

	size, err := strconv.Atoi(getenvWithDefault("LEADERBOARD_SIZE", "3"))
	if err != nil {
		return nil, fmt.Errorf("LEADERBOARD_SIZE must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Scheduler: SchedulerConfig{
			DigestSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 9 * * 1-6"),
			ExportSchedule: getenvWithDefault("EXPORT_CRON_SCHEDULE", "0 6 1 * *"),
			Timezone:       getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		Targets: TargetsConfig{
			CalendarPolicy:  getenvWithDefault("CALENDAR_POLICY", calendar.PolicyWorkdaysExcludingSunday),
			Strategy:        getenvWithDefault("TARGET_STRATEGY", targets.StrategyMixWeighted),
			LeaderboardSize: size,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "barbershop"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" || c.MongoDB.DBName == "" {
		return errors.New("MONGODB_URI and MONGODB_DB_NAME must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be set together")
	}

	if c.Scheduler.DigestSchedule == "" || c.Scheduler.ExportSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE and EXPORT_CRON_SCHEDULE must not be empty")
	}

	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Scheduler.Timezone, err)
	}

	if _, err := calendar.ByName(c.Targets.CalendarPolicy); err != nil {
		return fmt.Errorf("CALENDAR_POLICY: %w", err)
	}

	if _, err := targets.StrategyByName(c.Targets.Strategy); err != nil {
		return fmt.Errorf("TARGET_STRATEGY: %w", err)
	}

	if c.Targets.LeaderboardSize <= 0 {
		return errors.New("LEADERBOARD_SIZE must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
