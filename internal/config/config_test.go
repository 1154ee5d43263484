package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/autoapply/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
library: library.yaml
browser:
  profile_dir: /tmp/profile
`

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
feed_url: https://app.example/jobs
wait: 10s
settle_delay: 2s
library: library.yaml
database: apps.db
log_file: run.log
browser:
  profile_dir: /tmp/profile
  headless: true
answers:
  pronouns: She/Her
rate_limit:
  min_delay: 500ms
retry:
  max_retries: 0
  base_delay: 1s
watch:
  interval: 2h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedURL != "https://app.example/jobs" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.Wait != 10*time.Second || cfg.SettleDelay != 2*time.Second {
		t.Errorf("Wait/SettleDelay = %v/%v, want 10s/2s", cfg.Wait, cfg.SettleDelay)
	}
	if cfg.Database != "apps.db" || cfg.LogFile != "run.log" {
		t.Errorf("Database/LogFile = %q/%q", cfg.Database, cfg.LogFile)
	}
	if !cfg.Browser.Headless || cfg.Browser.ProfileDir != "/tmp/profile" {
		t.Errorf("Browser = %+v", cfg.Browser)
	}
	if cfg.Answers.Pronouns != "She/Her" {
		t.Errorf("Pronouns = %q", cfg.Answers.Pronouns)
	}
	if cfg.RateLimit.MinDelay != 500*time.Millisecond {
		t.Errorf("RateLimit.MinDelay = %v", cfg.RateLimit.MinDelay)
	}
	if cfg.Retry.MaxRetries != 0 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("Retry = %+v, want explicit zero retries", cfg.Retry)
	}
	if cfg.Watch.Interval != 2*time.Hour {
		t.Errorf("Watch.Interval = %v", cfg.Watch.Interval)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FeedURL != defaultFeedURL {
		t.Errorf("FeedURL = %q, want default", cfg.FeedURL)
	}
	if cfg.Wait != 30*time.Second {
		t.Errorf("Wait = %v, want 30s", cfg.Wait)
	}
	if cfg.SettleDelay != 5*time.Second {
		t.Errorf("SettleDelay = %v, want 5s", cfg.SettleDelay)
	}
	if cfg.Database != defaultDatabase {
		t.Errorf("Database = %q, want default", cfg.Database)
	}
	if cfg.Retry.MaxRetries != 2 {
		t.Errorf("Retry.MaxRetries = %d, want 2", cfg.Retry.MaxRetries)
	}
	if cfg.Notification.Type != "log" {
		t.Errorf("Notification.Type = %q, want log", cfg.Notification.Type)
	}
	if want := filepath.Join("/tmp/profile", "autoapply.lock"); cfg.LockFile != want {
		t.Errorf("LockFile = %q, want %q", cfg.LockFile, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "wait: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_MissingProfileIsNoProfile(t *testing.T) {
	_, err := Load(writeConfig(t, "library: library.yaml\n"))
	if !errors.Is(err, model.ErrNoProfile) {
		t.Fatalf("Load: expected ErrNoProfile, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing library", "browser:\n  profile_dir: /tmp/p\n"},
		{"bad duration", minimalConfig + "wait: soon\n"},
		{"zero wait", minimalConfig + "wait: 0s\n"},
		{"negative retries", minimalConfig + "retry:\n  max_retries: -1\n"},
		{"slack without webhook", minimalConfig + "notification:\n  type: slack\n"},
		{"slack bad webhook", minimalConfig + "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n"},
		{"unknown notifier", minimalConfig + "notification:\n  type: email\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected error, got nil")
			}
		})
	}
}

func TestLoad_SlackValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+"notification:\n  type: slack\n  webhook_url: https://hooks.slack.com/services/T/B/X\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notification.Type != "slack" {
		t.Errorf("Notification.Type = %q", cfg.Notification.Type)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("AUTOAPPLY_TEST_PROFILE", "/home/me/chrome")
	cfg, err := Load(writeConfig(t, "library: library.yaml\nbrowser:\n  profile_dir: ${AUTOAPPLY_TEST_PROFILE}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browser.ProfileDir != "/home/me/chrome" {
		t.Errorf("ProfileDir = %q, want expanded env var", cfg.Browser.ProfileDir)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTOAPPLY_TEST_HOOK=https://hooks.slack.com/x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUTOAPPLY_TEST_HOOK", "")
	os.Unsetenv("AUTOAPPLY_TEST_HOOK")

	if err := LoadEnv(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("AUTOAPPLY_TEST_HOOK"); got != "https://hooks.slack.com/x" {
		t.Errorf("AUTOAPPLY_TEST_HOOK = %q", got)
	}
}

func TestLoadEnv_MissingFileIsNotError(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "config.yaml")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	if got := ResolvePath(""); got != "config.yaml" {
		t.Errorf("ResolvePath(\"\") = %q, want config.yaml", got)
	}

	t.Setenv(EnvConfigPath, "/etc/autoapply.yaml")
	if got := ResolvePath(""); got != "/etc/autoapply.yaml" {
		t.Errorf("ResolvePath with env = %q", got)
	}
	if got := ResolvePath("mine.yaml"); got != "mine.yaml" {
		t.Errorf("ResolvePath with flag = %q, want flag value", got)
	}
}
