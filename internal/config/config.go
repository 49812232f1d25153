package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	ModeLive = "live"
	ModeMock = "mock"
)

// Config holds all configuration values. It's loaded once at startup and
// passed to the components that need it.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// Debug enables logging of full request bodies, which carry customer data.
	Debug bool   `mapstructure:"DEBUG"`
	Mode  string `mapstructure:"MODE"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	GoogleTokenURL     string `mapstructure:"GOOGLE_TOKEN_URL"`
	// CalendarEndpoint overrides the Calendar API base URL, empty means Google's.
	CalendarEndpoint string `mapstructure:"GOOGLE_CALENDAR_ENDPOINT"`
	CalendarID       string `mapstructure:"CALENDAR_ID"`
	TimeZone         string `mapstructure:"TIME_ZONE"`

	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	RateLimitPerMin int           `mapstructure:"RATE_LIMIT_PER_MIN"`

	OTelEnabled     bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint    string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
}

var defaults = map[string]any{
	"PORT":                        "3000",
	"ENV":                         "development",
	"LOG_LEVEL":                   "info",
	"DEBUG":                       false,
	"MODE":                        ModeLive,
	"GOOGLE_CLIENT_ID":            "",
	"GOOGLE_CLIENT_SECRET":        "",
	"GOOGLE_REFRESH_TOKEN":        "",
	"GOOGLE_TOKEN_URL":            "https://oauth2.googleapis.com/token",
	"GOOGLE_CALENDAR_ENDPOINT":    "",
	"CALENDAR_ID":                 "primary",
	"TIME_ZONE":                   "America/New_York",
	"UPSTREAM_TIMEOUT":            "10s",
	"RATE_LIMIT_PER_MIN":          0,
	"OTEL_ENABLED":                false,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"OTEL_SAMPLING_RATIO":         1.0,
}

// Load reads config.yaml from the current or ./config directory when present,
// then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeLive, ModeMock:
	default:
		return fmt.Errorf("config: MODE must be %q or %q (got %q)", ModeLive, ModeMock, c.Mode)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("config: UPSTREAM_TIMEOUT must be positive (got %s)", c.UpstreamTimeout)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MIN must not be negative (got %d)", c.RateLimitPerMin)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("config: TIME_ZONE: %w", err)
	}
	return nil
}

// MissingCredentials lists the Google credentials that are not set. Bookings
// fail at the token exchange without them, the server itself still runs.
func (c Config) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(c.GoogleClientID) == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if strings.TrimSpace(c.GoogleClientSecret) == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.GoogleRefreshToken) == "" {
		missing = append(missing, "GOOGLE_REFRESH_TOKEN")
	}
	return missing
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return ":" + c.Port
}
