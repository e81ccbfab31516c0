package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/mercado/internal/collector"
	"github.com/newthinker/mercado/internal/core"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig               `mapstructure:"server"`
	Analysis   AnalysisConfig             `mapstructure:"analysis"`
	Collectors map[string]CollectorConfig `mapstructure:"collectors"`
	News       NewsConfig                 `mapstructure:"news"`
	Scanner    ScannerConfig              `mapstructure:"scanner"`
	Notifiers  map[string]NotifierConfig  `mapstructure:"notifiers"`
	Router     RouterConfig               `mapstructure:"router"`
	Storage    StorageConfig              `mapstructure:"storage"`
	Metrics    MetricsConfig              `mapstructure:"metrics"`
	Watchlist  []string                   `mapstructure:"watchlist"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Mode        string `mapstructure:"mode"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// AnalysisConfig holds single-symbol analysis settings.
type AnalysisConfig struct {
	DefaultPeriod string  `mapstructure:"default_period"`
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"` // annual, fraction
	// Schedule is a cron spec for exporting watchlist analyses; empty disables it.
	Schedule string `mapstructure:"schedule"`
}

type CollectorConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url"`
	SummaryURL string        `mapstructure:"summary_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  float64       `mapstructure:"rate_limit"` // requests per second
}

// NewsConfig configures the headline feed used for sentiment.
type NewsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	FeedURL  string        `mapstructure:"feed_url"`
	Language string        `mapstructure:"language"`
	Region   string        `mapstructure:"region"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ScannerConfig configures the universe scanner.
type ScannerConfig struct {
	Period      string  `mapstructure:"period"`
	Workers     int     `mapstructure:"workers"`
	TopN        int     `mapstructure:"top_n"`
	RiskFreePct float64 `mapstructure:"risk_free_pct"`
	// Schedule is a cron spec for periodic scans; empty disables it.
	Schedule string `mapstructure:"schedule"`
}

// NotifierConfig configures one alert channel: telegram, email or webhook.
type NotifierConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	URL      string `mapstructure:"url"`
	// Email notifier fields
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
	// Webhook notifier fields
	Headers map[string]string `mapstructure:"headers"`
}

// RouterConfig controls which alerts reach the notifiers.
type RouterConfig struct {
	CooldownHours  int      `mapstructure:"cooldown_hours"`
	EnabledActions []string `mapstructure:"enabled_actions"`
}

type StorageConfig struct {
	Archive ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file on top of Defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("MERCADO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Mode:        "release",
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Analysis: AnalysisConfig{
			DefaultPeriod: "1y",
			RiskFreeRate:  0.01,
		},
		Collectors: map[string]CollectorConfig{
			"yahoo": {
				Enabled:   true,
				Timeout:   10 * time.Second,
				RateLimit: 5,
			},
		},
		News: NewsConfig{
			Enabled:  true,
			Language: "en-US",
			Region:   "US",
			Timeout:  10 * time.Second,
			CacheTTL: 15 * time.Minute,
		},
		Scanner: ScannerConfig{
			Period:      "1y",
			Workers:     4,
			TopN:        10,
			RiskFreePct: 2.0,
		},
		Router: RouterConfig{
			CooldownHours:  24,
			EnabledActions: []string{"BUY", "SELL"},
		},
		Storage: StorageConfig{
			Archive: ArchiveConfig{
				Type: "localfs",
				Path: "data/artifacts",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// Analysis validation
	if c.Analysis.DefaultPeriod != "" {
		if _, err := collector.PeriodStart(c.Analysis.DefaultPeriod, time.Now()); err != nil {
			return core.WrapError(core.ErrConfigInvalid, err)
		}
	}
	if c.Analysis.RiskFreeRate < 0 || c.Analysis.RiskFreeRate >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_free_rate must be a fraction in [0, 1), got %f", c.Analysis.RiskFreeRate))
	}

	// Scanner validation
	if c.Scanner.Workers < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scanner workers cannot be negative, got %d", c.Scanner.Workers))
	}
	if c.Scanner.TopN < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scanner top_n cannot be negative, got %d", c.Scanner.TopN))
	}

	// Schedules
	for name, spec := range map[string]string{"scanner": c.Scanner.Schedule, "analysis": c.Analysis.Schedule} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s schedule %q: %w", name, spec, err))
		}
	}

	// Notifier validation
	for name, n := range c.Notifiers {
		switch name {
		case "telegram", "email", "webhook":
		default:
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown notifier %q", name))
		}
		if n.Enabled && name == "webhook" && n.URL == "" {
			return core.WrapError(core.ErrConfigMissing, fmt.Errorf("webhook notifier requires url"))
		}
	}

	// Router validation
	if c.Router.CooldownHours < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("router cooldown_hours cannot be negative, got %d", c.Router.CooldownHours))
	}
	for _, a := range c.Router.EnabledActions {
		switch a {
		case "BUY", "SELL":
		default:
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown router action %q", a))
		}
	}

	// Storage validation
	switch c.Storage.Archive.Type {
	case "", "localfs":
	case "s3":
		if c.Storage.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Storage.Archive.Type))
	}

	return nil
}
