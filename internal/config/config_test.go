package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MODE", "UPSTREAM_TIMEOUT", "TIME_ZONE", "CALENDAR_ID", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("unexpected port: %q", cfg.Port)
	}
	if cfg.Mode != ModeLive {
		t.Errorf("unexpected mode: %q", cfg.Mode)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.UpstreamTimeout)
	}
	if cfg.TimeZone != "America/New_York" {
		t.Errorf("unexpected time zone: %q", cfg.TimeZone)
	}
	if cfg.CalendarID != "primary" {
		t.Errorf("unexpected calendar id: %q", cfg.CalendarID)
	}
	if cfg.GoogleTokenURL != "https://oauth2.googleapis.com/token" {
		t.Errorf("unexpected token url: %q", cfg.GoogleTokenURL)
	}
	if cfg.Debug {
		t.Error("debug must be off by default")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MODE", "mock")
	t.Setenv("DEBUG", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MIN", "60")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REFRESH_TOKEN", "refresh")
	t.Setenv("TIME_ZONE", "Europe/Berlin")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8081" {
		t.Errorf("unexpected addr: %q", cfg.Addr())
	}
	if cfg.Mode != ModeMock || !cfg.Debug {
		t.Errorf("unexpected mode/debug: %q %v", cfg.Mode, cfg.Debug)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.UpstreamTimeout)
	}
	if cfg.RateLimitPerMin != 60 {
		t.Errorf("unexpected rate limit: %d", cfg.RateLimitPerMin)
	}
	if cfg.GoogleClientID != "id" || cfg.GoogleClientSecret != "secret" || cfg.GoogleRefreshToken != "refresh" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.TimeZone != "Europe/Berlin" {
		t.Errorf("unexpected time zone: %q", cfg.TimeZone)
	}
	if missing := cfg.MissingCredentials(); len(missing) != 0 {
		t.Errorf("unexpected missing credentials: %v", missing)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]struct {
		key, value, want string
	}{
		"mode":     {"MODE", "staging", "MODE"},
		"timeout":  {"UPSTREAM_TIMEOUT", "0s", "UPSTREAM_TIMEOUT"},
		"timezone": {"TIME_ZONE", "Mars/Olympus_Mons", "TIME_ZONE"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMissingCredentials(t *testing.T) {
	cfg := Config{GoogleClientID: "id", GoogleRefreshToken: "  "}
	want := []string{"GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN"}
	if got := cfg.MissingCredentials(); !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingCredentials() = %v, want %v", got, want)
	}
}
