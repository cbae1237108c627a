package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/httech/voltgo/internal/domain/alert"
	"github.com/httech/voltgo/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. VOLTGO_API_ALERTS_URL
const EnvPrefix = "VOLTGO"

// DateLayout is the format of report.start and report.end
const DateLayout = "2006-01-02"

// Config holds all application configuration
type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"log"`
	Report      ReportConfig      `mapstructure:"report"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Output      string            `mapstructure:"output" validate:"oneof=table json yaml"`
}

// APIConfig contains remote endpoint configuration
type APIConfig struct {
	AlertsURL   string        `mapstructure:"alerts_url" validate:"required"`
	CommentsURL string        `mapstructure:"comments_url"`
	AuthURL     string        `mapstructure:"auth_url" validate:"required"`
	NewsURL     string        `mapstructure:"news_url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	RateLimit   float64       `mapstructure:"rate_limit" validate:"gte=0"`
}

// StorageConfig locates the local state database
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// ReportConfig scopes the alert chart
type ReportConfig struct {
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// PreferencesConfig holds the settings screen toggles
type PreferencesConfig struct {
	DarkMode         bool `mapstructure:"dark_mode"`
	Notifications    bool `mapstructure:"notifications"`
	LocationServices bool `mapstructure:"location_services"`
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.alerts_url", "https://api.dev.httech.io/api/HTT/alerts")
	v.SetDefault("api.comments_url", "")
	v.SetDefault("api.auth_url", "http://localhost:5001")
	v.SetDefault("api.news_url", "http://127.0.0.1:5000/scrape")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("report.start", "")
	v.SetDefault("report.end", "")
	v.SetDefault("report.timezone", "UTC")
	v.SetDefault("preferences.dark_mode", false)
	v.SetDefault("preferences.notifications", true)
	v.SetDefault("preferences.location_services", false)
	v.SetDefault("output", "table")
}

// Load builds the configuration from defaults, an optional .env file,
// VOLTGO_* environment variables and whatever config file v has read.
func Load(v *viper.Viper) (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Check(c); err != nil {
		return err
	}
	if _, err := c.Report.Location(); err != nil {
		return err
	}
	if _, err := c.Report.Window(); err != nil {
		return err
	}
	return nil
}

// StatePath returns the state database path, defaulting to $HOME/.voltgo/state.db
func (c *Config) StatePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".voltgo"), nil
}

// Location resolves the report time zone
func (r ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("report.timezone: %w", err)
	}
	return loc, nil
}

// Window resolves the reporting window. With neither bound set it is the
// default window; a configured end date covers that whole day.
func (r ReportConfig) Window() (alert.ReportingWindow, error) {
	loc, err := r.Location()
	if err != nil {
		return alert.ReportingWindow{}, err
	}
	if r.Start == "" && r.End == "" {
		return alert.DefaultReportingWindow(loc), nil
	}
	if r.Start == "" || r.End == "" {
		return alert.ReportingWindow{}, fmt.Errorf("report.start and report.end must be set together")
	}

	start, err := time.ParseInLocation(DateLayout, r.Start, loc)
	if err != nil {
		return alert.ReportingWindow{}, fmt.Errorf("report.start: %w", err)
	}
	end, err := time.ParseInLocation(DateLayout, r.End, loc)
	if err != nil {
		return alert.ReportingWindow{}, fmt.Errorf("report.end: %w", err)
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return alert.ReportingWindow{}, fmt.Errorf("report.end is before report.start")
	}
	return alert.ReportingWindow{Start: start, End: end}, nil
}
