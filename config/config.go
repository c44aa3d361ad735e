package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config global application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Policy   PolicyConfig   `mapstructure:"policy"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	BaseURL   string          `mapstructure:"base_url"`
	CORS      CORSConfig      `mapstructure:"cors"`
	BodyLimit int64           `mapstructure:"body_limit"` // bytes
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig per-client request budget, enforced through Redis
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// DatabaseConfig PostgreSQL settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// URL builds the postgres:// form used by the migrate CLI
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig optional cache settings; an empty addr disables Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig logging settings
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"` // optional rotating file, in addition to stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// CalendarConfig bank-holiday feed settings
type CalendarConfig struct {
	HolidayFeedURL      string        `mapstructure:"holiday_feed_url"`
	HolidayFallbackFile string        `mapstructure:"holiday_fallback_file"`
	FeedTimeout         time.Duration `mapstructure:"feed_timeout"`
	HolidayCacheTTL     time.Duration `mapstructure:"holiday_cache_ttl"`
	RetryAfter          time.Duration `mapstructure:"retry_after"`
}

// PolicyConfig tunable season-rule constants
type PolicyConfig struct {
	Quotas              []QuotaConfig          `mapstructure:"quotas"`
	FixedUnavailability []UnavailabilityConfig `mapstructure:"fixed_unavailability"`
	MinAfternoonRatio   float64                `mapstructure:"min_afternoon_ratio"`
	AfternoonHour       int                    `mapstructure:"afternoon_hour"`
	MinHolidayRatio     float64                `mapstructure:"min_holiday_ratio"`
	CarouselDays        []string               `mapstructure:"carousel_days"`
	MaxCarouselsTwoDays int                    `mapstructure:"max_carousels_two_days"`
}

// QuotaConfig per-season cap for a named secretary
type QuotaConfig struct {
	Secretary    string `mapstructure:"secretary"`
	MaxCarousels int    `mapstructure:"max_carousels"`
	MaxPanels    int    `mapstructure:"max_panels"`
}

// UnavailabilityConfig fixed weekly unavailability for a named secretary
type UnavailabilityConfig struct {
	Secretary string   `mapstructure:"secretary"`
	Weekdays  []string `mapstructure:"weekdays"`
}

// Load reads configuration.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.body_limit", 2<<20)
	v.SetDefault("server.rate_limit.requests", 120)
	v.SetDefault("server.rate_limit.window", "1m")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "panel_planner")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/London")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("calendar.holiday_feed_url", "https://www.gov.uk/bank-holidays.json")
	v.SetDefault("calendar.holiday_fallback_file", "")
	v.SetDefault("calendar.feed_timeout", "10s")
	v.SetDefault("calendar.holiday_cache_ttl", "24h")
	v.SetDefault("calendar.retry_after", "5m")

	v.SetDefault("policy.quotas", []map[string]interface{}{
		{"secretary": "Robert Avery", "max_carousels": 8, "max_panels": 4},
		{"secretary": "Carys Walsh", "max_carousels": 8, "max_panels": 4},
		{"secretary": "Joy Gilliver", "max_carousels": 3, "max_panels": 2},
	})
	v.SetDefault("policy.fixed_unavailability", []map[string]interface{}{
		{"secretary": "Robert Avery", "weekdays": []string{"Monday", "Tuesday"}},
	})
	v.SetDefault("policy.min_afternoon_ratio", 0.20)
	v.SetDefault("policy.afternoon_hour", 12)
	v.SetDefault("policy.min_holiday_ratio", 0.10)
	v.SetDefault("policy.carousel_days", []string{"Tuesday", "Wednesday", "Friday"})
	v.SetDefault("policy.max_carousels_two_days", 4)

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("PANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot run without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Calendar.FeedTimeout <= 0 {
		return fmt.Errorf("config: calendar.feed_timeout must be positive")
	}
	return c.Policy.Validate()
}

// Validate checks the policy section
func (p *PolicyConfig) Validate() error {
	if p.MinAfternoonRatio < 0 || p.MinAfternoonRatio > 1 {
		return fmt.Errorf("config: policy.min_afternoon_ratio must be within [0,1]")
	}
	if p.MinHolidayRatio < 0 || p.MinHolidayRatio > 1 {
		return fmt.Errorf("config: policy.min_holiday_ratio must be within [0,1]")
	}
	if p.AfternoonHour < 0 || p.AfternoonHour > 23 {
		return fmt.Errorf("config: policy.afternoon_hour must be within [0,23]")
	}
	for _, q := range p.Quotas {
		if q.Secretary == "" || q.MaxCarousels < 0 || q.MaxPanels < 0 {
			return fmt.Errorf("config: invalid quota %+v", q)
		}
	}
	for _, d := range p.CarouselDays {
		if _, err := ParseWeekday(d); err != nil {
			return err
		}
	}
	for _, u := range p.FixedUnavailability {
		for _, d := range u.Weekdays {
			if _, err := ParseWeekday(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseWeekday accepts full English day names, case-insensitively
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("config: unknown weekday %q", s)
}
