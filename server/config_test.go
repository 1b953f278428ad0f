package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
time_zone = "America/Sao_Paulo"

[discord]
check_in_channel_id = "123456789012345678"

[store]
driver = "memory"

[check_in]
refresh_interval = "5m"

[[check_in.ranks]]
threshold = 0
name = "Reservista"
color = "#990000"

[[check_in.ranks]]
threshold = 10
name = "Recruta"
color = "#85200c"
`)
	t.Setenv("DISCORD_TOKEN", "secret-token")
	t.Setenv("CHECKIN_CHANNEL_ID", "876543210987654321")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Discord.Token)
	assert.Equal(t, "876543210987654321", cfg.Discord.CheckInChannelID)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.CheckIn.RefreshInterval))
	require.Len(t, cfg.CheckIn.Ranks, 2)
	assert.Equal(t, "#85200c", cfg.CheckIn.Ranks[1].Color.Hex())
	assert.Equal(t, "!presença", cfg.CheckIn.Command)
	assert.Len(t, cfg.CheckIn.Gates, 2)

	assert.NotContains(t, cfg.String(), "secret-token")
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CHECKIN_CHANNEL_ID", "123456789012345678")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	t.Setenv("SPREADSHEET_ID", "sheet")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, StoreDriverSheets, cfg.Store.Driver)
	assert.Equal(t, "sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "credentials.json", cfg.Sheets.CredentialsFile)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_TOKEN=from-dotenv\nCHECKIN_CHANNEL_ID=123456789012345678\nTIMEZONE=UTC\nSTORE_DRIVER=memory\n"), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"DISCORD_TOKEN", "CHECKIN_CHANNEL_ID", "TIMEZONE", "STORE_DRIVER"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := LoadConfig("config.toml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Discord.Token)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestValidateMissing(t *testing.T) {
	cfg := defaultConfig()

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrConfigurationMissing)
	for _, key := range []string{"DISCORD_TOKEN", "CHECKIN_CHANNEL_ID", "TIMEZONE", "SPREADSHEET_ID"} {
		assert.ErrorContains(t, err, key)
	}
}

func TestValidateInvalidValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Discord.Token = "token"
	cfg.Discord.CheckInChannelID = "general"
	cfg.TimeZone = "America/Sao_Paulo"
	cfg.Store.Driver = StoreDriverMemory
	assert.ErrorContains(t, cfg.Validate(), "invalid check-in channel id")

	cfg.Discord.CheckInChannelID = "123456789012345678"
	cfg.TimeZone = "Mars/Olympus"
	assert.ErrorContains(t, cfg.Validate(), "invalid time zone")

	cfg.TimeZone = "UTC"
	cfg.Store.Driver = "excel"
	assert.ErrorContains(t, cfg.Validate(), "unknown store driver")

	cfg.Store.Driver = StoreDriverDatabase
	assert.NoError(t, cfg.Validate())
}
