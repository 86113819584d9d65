package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "MONGODB_URI", "MONGODB_DB_NAME",
		"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN",
		"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
		"DIGEST_CRON_SCHEDULE", "EXPORT_CRON_SCHEDULE", "TIMEZONE",
		"CALENDAR_POLICY", "TARGET_STRATEGY", "LEADERBOARD_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "workdays_excluding_sunday", cfg.Targets.CalendarPolicy)
	assert.Equal(t, "mix_weighted", cfg.Targets.Strategy)
	assert.Equal(t, 3, cfg.Targets.LeaderboardSize)
	assert.Equal(t, "America/Sao_Paulo", cfg.Scheduler.Timezone)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_STRATEGY", "guesswork")

	_, err := Load("does-not-exist.env")
	assert.ErrorContains(t, err, "TARGET_STRATEGY")
}

func TestLoadRejectsBadLeaderboardSize(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEADERBOARD_SIZE", "abc")
	_, err := Load("does-not-exist.env")
	assert.Error(t, err)

	t.Setenv("LEADERBOARD_SIZE", "0")
	_, err = Load("does-not-exist.env")
	assert.ErrorContains(t, err, "LEADERBOARD_SIZE")
}

func TestValidateWhatsAppRequiresCredentialsWhenEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHATSAPP_TOKEN", "token")

	_, err := Load("does-not-exist.env")
	assert.ErrorContains(t, err, "WHATSAPP_PHONE_NUMBER_ID")

	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("META_VERIFY_TOKEN", "verify")
	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestValidateSheetsPairing(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet")

	_, err := Load("does-not-exist.env")
	assert.ErrorContains(t, err, "must be set together")
}
