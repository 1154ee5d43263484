package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/autoapply/internal/model"
)

// EnvConfigPath names the environment variable consulted when no --config flag is given.
const EnvConfigPath = "AUTOAPPLY_CONFIG"

const (
	defaultConfigPath = "config.yaml"
	defaultFeedURL    = "https://app.otta.com/jobs/theme/apply-via-otta"
	defaultDatabase   = "applications.db"
	defaultPronouns   = "He/Him"
	slackHookPrefix   = "https://hooks.slack.com/"
)

// Config is the root configuration for an application run.
type Config struct {
	FeedURL      string
	Wait         time.Duration // timeout for page elements and submission confirmation
	SettleDelay  time.Duration // pause after moving to the next listing
	Library      string        // content library path (YAML or JSON)
	Database     string
	LogFile      string
	LockFile     string
	Browser      BrowserConfig
	Answers      AnswersConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	Notification NotificationConfig
	Watch        WatchConfig
}

// BrowserConfig controls the driven browser. ProfileDir holds the logged-in session.
type BrowserConfig struct {
	ProfileDir string `yaml:"profile_dir"`
	Headless   bool   `yaml:"headless"`
	ExecPath   string `yaml:"exec_path"`
}

// AnswersConfig holds operator-specific fixed answers.
type AnswersConfig struct {
	Pronouns string `yaml:"pronouns"`
}

// RateLimitConfig controls the pacing of clicks, typing and navigation.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// RetryConfig controls navigation retries.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// WatchConfig controls the interval between sessions of the watch command.
type WatchConfig struct {
	Interval time.Duration
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	FeedURL      string             `yaml:"feed_url"`
	Wait         string             `yaml:"wait"`
	SettleDelay  string             `yaml:"settle_delay"`
	Library      string             `yaml:"library"`
	Database     string             `yaml:"database"`
	LogFile      string             `yaml:"log_file"`
	LockFile     string             `yaml:"lock_file"`
	Browser      BrowserConfig      `yaml:"browser"`
	Answers      AnswersConfig      `yaml:"answers"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	Notification NotificationConfig `yaml:"notification"`
	Watch        rawWatchConfig     `yaml:"watch"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

// ResolvePath picks the config file: the flag value, then $AUTOAPPLY_CONFIG,
// then ./config.yaml.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return defaultConfigPath
}

// LoadEnv loads a .env file next to the config file into the process
// environment. Variables already set are left alone. A missing file is not an error.
func LoadEnv(configPath string) error {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	wait, err := parseDuration("wait", raw.Wait, 30*time.Second)
	if err != nil {
		return nil, err
	}
	settle, err := parseDuration("settle_delay", raw.SettleDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, time.Second)
	if err != nil {
		return nil, err
	}
	baseDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := parseDuration("watch.interval", raw.Watch.Interval, 6*time.Hour)
	if err != nil {
		return nil, err
	}

	maxRetries := 2 // default
	if raw.Retry.MaxRetries != nil {
		maxRetries = *raw.Retry.MaxRetries
	}

	cfg := &Config{
		FeedURL:     orDefault(raw.FeedURL, defaultFeedURL),
		Wait:        wait,
		SettleDelay: settle,
		Library:     raw.Library,
		Database:    orDefault(raw.Database, defaultDatabase),
		LogFile:     raw.LogFile,
		LockFile:    raw.LockFile,
		Browser:     raw.Browser,
		Answers: AnswersConfig{
			Pronouns: orDefault(raw.Answers.Pronouns, defaultPronouns),
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
		Retry: RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  baseDelay,
		},
		Notification: raw.Notification,
		Watch:        WatchConfig{Interval: interval},
	}
	if cfg.Notification.Type == "" {
		cfg.Notification.Type = "log"
	}
	if cfg.LockFile == "" && cfg.Browser.ProfileDir != "" {
		cfg.LockFile = filepath.Join(cfg.Browser.ProfileDir, "autoapply.lock")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.Browser.ProfileDir == "" {
		return fmt.Errorf("browser.profile_dir: %w", model.ErrNoProfile)
	}
	if cfg.Library == "" {
		return fmt.Errorf("library is required")
	}
	if cfg.Wait <= 0 {
		return fmt.Errorf("wait must be positive, got %v", cfg.Wait)
	}
	if cfg.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative, got %v", cfg.SettleDelay)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackHookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackHookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
