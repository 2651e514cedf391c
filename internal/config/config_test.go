package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
polling_interval: 5m
search:
  api_key: key-1
  engine_id: cx-1
  query: golang developer
  sites:
    - il.linkedin.com/jobs
notification:
  type: telegram
  bot_token: token
  chat_id: "42"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollingInterval != 5*time.Minute {
		t.Errorf("PollingInterval = %v, want 5m", cfg.PollingInterval)
	}
	if cfg.Search.APIKey != "key-1" || cfg.Search.EngineID != "cx-1" {
		t.Errorf("Search credentials = %q/%q", cfg.Search.APIKey, cfg.Search.EngineID)
	}
	if cfg.Notification.ChatID != "42" {
		t.Errorf("ChatID = %q, want 42", cfg.Notification.ChatID)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.MaxPages != 3 {
		t.Errorf("MaxPages = %d, want 3", cfg.Search.MaxPages)
	}
	if cfg.Search.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Search.PageSize)
	}
	if cfg.Search.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Search.MaxRetries)
	}
	if cfg.Search.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Search.Timeout)
	}
	if cfg.Search.PageDelay != time.Second || cfg.Notification.MessageDelay != time.Second {
		t.Errorf("delays = %v/%v, want 1s/1s", cfg.Search.PageDelay, cfg.Notification.MessageDelay)
	}
	if cfg.State.Backend != "json" || cfg.State.Path != "jobs.json" {
		t.Errorf("State = %+v, want json/jobs.json", cfg.State)
	}
}

func TestLoad_SQLiteDefaultPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig+"state:\n  backend: sqlite\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.State.Path != "jobs.db" {
		t.Errorf("State.Path = %q, want jobs.db", cfg.State.Path)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBWATCH_TEST_KEY", "from-env")
	content := strings.Replace(validConfig, "api_key: key-1", "api_key: ${JOBWATCH_TEST_KEY}", 1)

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.Search.APIKey)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		replace string
		with    string
	}{
		{"api key", "api_key: key-1", "api_key: \"\""},
		{"engine id", "engine_id: cx-1", "engine_id: \"\""},
		{"bot token", "bot_token: token", "bot_token: \"\""},
		{"chat id", "chat_id: \"42\"", "chat_id: \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(validConfig, tt.replace, tt.with, 1)
			_, err := Load(writeConfig(t, content))
			if !errors.Is(err, model.ErrConfigMissing) {
				t.Fatalf("err = %v, want ErrConfigMissing", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		replace string
		with    string
	}{
		{"zero interval", "polling_interval: 5m", "polling_interval: 0s"},
		{"bad interval", "polling_interval: 5m", "polling_interval: soon"},
		{"page size too large", "query: golang developer", "query: golang developer\n  page_size: 11"},
		{"negative retries", "query: golang developer", "query: golang developer\n  max_retries: -1"},
		{"unknown notifier", "type: telegram", "type: pigeon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(validConfig, tt.replace, tt.with, 1)
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_ScheduleAllowsZeroInterval(t *testing.T) {
	content := strings.Replace(validConfig, "polling_interval: 5m", "schedule: \"*/15 * * * *\"\npolling_interval: 0s", 1)
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule != "*/15 * * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
}

func TestLoad_SlackWebhookValidation(t *testing.T) {
	base := `
search:
  api_key: k
  engine_id: cx
  query: q
notification:
  type: slack
  webhook_url: %s
`
	if _, err := Load(writeConfig(t, strings.Replace(base, "%s", "https://example.com/hook", 1))); err == nil {
		t.Error("expected error for non-slack webhook")
	}
	if _, err := Load(writeConfig(t, strings.Replace(base, "%s", "https://hooks.slack.com/services/T/B/X", 1))); err != nil {
		t.Errorf("Load: %v", err)
	}
}

const emailConfig = `
search:
  api_key: k
  engine_id: cx
  query: q
notification:
  type: email
  email:
    smtp_host: smtp.gmail.com
    username: me@gmail.com
    password: app-password
    from: me@gmail.com
    to: [me@gmail.com]
`

func TestLoad_EmailNotifier(t *testing.T) {
	cfg, err := Load(writeConfig(t, emailConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	email := cfg.Notification.Email
	if email.Host != "smtp.gmail.com" || email.Username != "me@gmail.com" || email.Password != "app-password" {
		t.Errorf("email = %+v", email)
	}
	if email.Port != 587 {
		t.Errorf("Port = %d, want 587", email.Port)
	}
	if email.TLS != "mandatory" {
		t.Errorf("TLS = %q, want mandatory", email.TLS)
	}
	if email.Subject != "New Job Postings" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if len(email.To) != 1 || email.To[0] != "me@gmail.com" {
		t.Errorf("To = %v", email.To)
	}
}

func TestLoad_EmailNotifierMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		replace string
	}{
		{"host", "    smtp_host: smtp.gmail.com\n"},
		{"from", "    from: me@gmail.com\n"},
		{"to", "    to: [me@gmail.com]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(emailConfig, tt.replace, "", 1)
			_, err := Load(writeConfig(t, content))
			if !errors.Is(err, model.ErrConfigMissing) {
				t.Fatalf("err = %v, want ErrConfigMissing", err)
			}
		})
	}
}

func TestLoad_EmailNotifierInvalidValues(t *testing.T) {
	for _, extra := range []string{"    tls: starttls-please\n", "    smtp_port: 70000\n"} {
		if _, err := Load(writeConfig(t, emailConfig+extra)); err == nil {
			t.Errorf("expected error for %q", extra)
		}
	}
}

func TestLoad_LogNotifierNeedsNoCredentials(t *testing.T) {
	content := `
search:
  api_key: k
  engine_id: cx
  sites: [il.linkedin.com/jobs]
notification:
  type: log
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollingInterval != 30*time.Minute {
		t.Errorf("PollingInterval = %v, want 30m", cfg.PollingInterval)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "gkey")
	t.Setenv("GOOGLE_CX", "gcx")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Search.DateRestrict != "d3" {
		t.Errorf("DateRestrict = %q, want d3", cfg.Search.DateRestrict)
	}
	if len(cfg.Search.ExcludeTerms) != 11 {
		t.Errorf("ExcludeTerms = %v, want 11 terms", cfg.Search.ExcludeTerms)
	}
	if len(cfg.Search.Sites) != 1 || cfg.Search.Sites[0] != "il.linkedin.com/jobs" {
		t.Errorf("Sites = %v", cfg.Search.Sites)
	}
	if cfg.Notification.ChatID != "-100123" {
		t.Errorf("ChatID = %q", cfg.Notification.ChatID)
	}

	q := cfg.Search.Query()
	if !strings.Contains(q.FullText(), "site:il.linkedin.com/jobs") {
		t.Errorf("FullText = %q", q.FullText())
	}
}

func TestDefault_MissingEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CX", "gcx")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "1")

	if _, err := Default(); !errors.Is(err, model.ErrConfigMissing) {
		t.Fatalf("err = %v, want ErrConfigMissing", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("JOBWATCH_DOTENV_VALUE=hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JOBWATCH_DOTENV_VALUE", "")
	os.Unsetenv("JOBWATCH_DOTENV_VALUE")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("JOBWATCH_DOTENV_VALUE"); got != "hello" {
		t.Errorf("JOBWATCH_DOTENV_VALUE = %q, want hello", got)
	}
}
