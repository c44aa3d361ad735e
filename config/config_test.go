package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		// an explicit path that does not exist is an error, not a silent default
		t.Fatalf("expected error for missing explicit file, got %+v", cfg)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Calendar.FeedTimeout != 10*time.Second {
		t.Errorf("feed timeout = %s", cfg.Calendar.FeedTimeout)
	}
	if len(cfg.Policy.Quotas) != 3 || cfg.Policy.Quotas[2].Secretary != "Joy Gilliver" || cfg.Policy.Quotas[2].MaxCarousels != 3 {
		t.Errorf("quotas = %+v", cfg.Policy.Quotas)
	}
	if len(cfg.Policy.CarouselDays) != 3 {
		t.Errorf("carousel days = %v", cfg.Policy.CarouselDays)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PANEL_LOG_LEVEL", "debug")
	t.Setenv("PANEL_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Server.Port != 7070 {
		t.Errorf("log.level = %s, port = %d", cfg.Log.Level, cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Log:      LogConfig{Format: "json"},
			Calendar: CalendarConfig{FeedTimeout: time.Second},
			Policy: PolicyConfig{
				MinAfternoonRatio: 0.2,
				MinHolidayRatio:   0.1,
				AfternoonHour:     12,
				CarouselDays:      []string{"Tuesday"},
			},
		}
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := map[string]func(*Config){
		"port":        func(c *Config) { c.Server.Port = 0 },
		"log format":  func(c *Config) { c.Log.Format = "xml" },
		"timeout":     func(c *Config) { c.Calendar.FeedTimeout = 0 },
		"ratio":       func(c *Config) { c.Policy.MinHolidayRatio = 1.5 },
		"weekday":     func(c *Config) { c.Policy.CarouselDays = []string{"Funday"} },
		"quota":       func(c *Config) { c.Policy.Quotas = []QuotaConfig{{Secretary: "", MaxPanels: 1}} },
		"unavailable": func(c *Config) { c.Policy.FixedUnavailability = []UnavailabilityConfig{{Secretary: "X", Weekdays: []string{"Mon"}}} },
	}
	for name, mutate := range tests {
		c := valid()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"monday": time.Monday, " Friday ": time.Friday, "SUNDAY": time.Sunday} {
		got, err := ParseWeekday(in)
		if err != nil || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v", in, got, err)
		}
	}
}
