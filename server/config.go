package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"

	"github.com/topi314/checkin-tracker/internal/xtime"
	"github.com/topi314/checkin-tracker/server/attendance"
	"github.com/topi314/checkin-tracker/server/database"
	"github.com/topi314/checkin-tracker/server/sheets"
)

var ErrConfigurationMissing = errors.New("configuration missing")

// LoadConfig reads the optional toml file at cfgPath, then the optional .env
// file and finally the environment, each overriding the previous source.
func LoadConfig(cfgPath string) (Config, error) {
	cfg := defaultConfig()

	file, err := os.Open(cfgPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	if err == nil {
		defer func() {
			_ = file.Close()
		}()
		if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err = env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		Discord: DiscordConfig{
			LogLevel: slog.LevelWarn,
		},
		Store: StoreConfig{
			Driver: StoreDriverSheets,
		},
		Sheets: sheets.Config{
			CredentialsFile: "credentials.json",
			ValueInput:      "RAW",
			Every:           xtime.Duration(1 * time.Second),
			Burst:           10,
		},
		Database: database.Config{
			Driver:   database.DriverSQLite,
			Host:     "localhost",
			Port:     5432,
			Username: "postgres",
			Password: "password",
			Database: "checkin-tracker",
			SSLMode:  "disable",
			Path:     "checkin-tracker.db",
		},
		CheckIn: attendance.DefaultConfig(),
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "checkin-tracker",
			Endpoint:    "localhost:4318",
			Insecure:    true,
		},
	}
}

type Config struct {
	TimeZone string            `toml:"time_zone" env:"TIMEZONE"`
	Log      LogConfig         `toml:"log"`
	Discord  DiscordConfig     `toml:"discord"`
	Store    StoreConfig       `toml:"store"`
	Sheets   sheets.Config     `toml:"sheets"`
	Database database.Config   `toml:"database"`
	CheckIn  attendance.Config `toml:"check_in"`
	Tracing  TracingConfig     `toml:"tracing"`
}

func (c Config) String() string {
	return fmt.Sprintf("TimeZone: %s\nLog: %s\nDiscord: %s\nStore: %s\nSheets: %s\nDatabase: %s\nCheckIn: %s\nTracing: %s",
		c.TimeZone,
		c.Log,
		c.Discord,
		c.Store,
		c.Sheets,
		c.Database,
		c.CheckIn,
		c.Tracing,
	)
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var missing []string
	if c.Discord.Token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.Discord.CheckInChannelID == "" {
		missing = append(missing, "CHECKIN_CHANNEL_ID")
	}
	if c.TimeZone == "" {
		missing = append(missing, "TIMEZONE")
	}

	switch c.Store.Driver {
	case StoreDriverSheets:
		if c.Sheets.SpreadsheetID == "" {
			missing = append(missing, "SPREADSHEET_ID")
		}
		if c.Sheets.CredentialsFile == "" {
			missing = append(missing, "GOOGLE_CREDENTIALS_FILE")
		}
	case StoreDriverDatabase, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}

	if _, err := snowflake.Parse(c.Discord.CheckInChannelID); err != nil {
		return fmt.Errorf("invalid check-in channel id %q: %w", c.Discord.CheckInChannelID, err)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return nil
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LOG_LEVEL"`
	Format    LogFormat  `toml:"format" env:"LOG_FORMAT"`
	AddSource bool       `toml:"add_source" env:"LOG_ADD_SOURCE"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t",
		c.Level,
		c.Format,
		c.AddSource,
	)
}

type DiscordConfig struct {
	Token            string `toml:"token" env:"DISCORD_TOKEN"`
	CheckInChannelID string `toml:"check_in_channel_id" env:"CHECKIN_CHANNEL_ID"`
	// LogLevel filters the gateway and rest logs of the discord library.
	LogLevel slog.Level `toml:"log_level" env:"DISCORD_LOG_LEVEL"`
}

func (c DiscordConfig) String() string {
	return fmt.Sprintf("\n Token: %s\n CheckInChannelID: %s\n LogLevel: %s",
		strings.Repeat("*", len(c.Token)),
		c.CheckInChannelID,
		c.LogLevel,
	)
}

type StoreDriver string

const (
	StoreDriverSheets   StoreDriver = "sheets"
	StoreDriverDatabase StoreDriver = "database"
	StoreDriverMemory   StoreDriver = "memory"
)

type StoreConfig struct {
	Driver StoreDriver `toml:"driver" env:"STORE_DRIVER"`
}

func (c StoreConfig) String() string {
	return fmt.Sprintf("\n Driver: %s", c.Driver)
}

type TracingConfig struct {
	Enabled     bool   `toml:"enabled" env:"TRACING_ENABLED"`
	ServiceName string `toml:"service_name" env:"TRACING_SERVICE_NAME"`
	Endpoint    string `toml:"endpoint" env:"TRACING_ENDPOINT"`
	Insecure    bool   `toml:"insecure" env:"TRACING_INSECURE"`
}

func (c TracingConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n ServiceName: %s\n Endpoint: %s\n Insecure: %t",
		c.Enabled,
		c.ServiceName,
		c.Endpoint,
		c.Insecure,
	)
}
