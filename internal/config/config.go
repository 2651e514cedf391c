package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/search"
)

// Config is the root configuration for the jobwatch poller.
type Config struct {
	PollingInterval time.Duration
	Schedule        string // cron expression; overrides PollingInterval when set
	SeedOnFirstRun  bool
	State           StateConfig
	Search          SearchConfig
	Filters         FilterConfig
	Notification    NotificationConfig
}

// StateConfig selects where seen posting ids are persisted.
type StateConfig struct {
	Backend string `yaml:"backend"` // "json" (default) or "sqlite"
	Path    string `yaml:"path"`
}

// SearchConfig describes the search provider credentials and the query.
type SearchConfig struct {
	APIKey       string
	EngineID     string
	BaseURL      string
	QueryText    string
	ExactTerms   string
	ExcludeTerms []string
	Sites        []string
	Geolocation  string
	Country      string
	DateRestrict string
	MaxPages     int
	PageSize     int
	PageDelay    time.Duration // pause between consecutive page requests
	MaxRetries   int           // extra attempts per page on transient errors
	RetryDelay   time.Duration // first backoff; every wait is capped at Timeout
	Timeout      time.Duration // per-request HTTP timeout
}

// Query returns the search query described by the config.
func (s SearchConfig) Query() search.Query {
	return search.Query{
		Query:        s.QueryText,
		ExactTerms:   s.ExactTerms,
		ExcludeTerms: s.ExcludeTerms,
		Sites:        s.Sites,
		Geolocation:  s.Geolocation,
		Country:      s.Country,
		DateRestrict: s.DateRestrict,
		MaxPages:     s.MaxPages,
		PageSize:     s.PageSize,
	}
}

// FilterConfig holds local filters applied after fetching.
type FilterConfig struct {
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
}

// NotificationConfig controls which sender is used and its settings.
type NotificationConfig struct {
	Type         string        // "telegram", "slack", "email" or "log"
	BotToken     string        // required if type is "telegram"
	ChatID       string        // required if type is "telegram"
	APIURL       string        // Telegram Bot API base URL, empty for the public API
	WebhookURL   string        // required if type is "slack"
	Email        EmailConfig   // used if type is "email"
	MessageDelay time.Duration // pause after each delivered message
}

// EmailConfig is the SMTP relay used by the email sender.
type EmailConfig struct {
	Host     string   `yaml:"smtp_host"`
	Port     int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	TLS      string   `yaml:"tls"` // mandatory, opportunistic, none or ssl
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Subject  string   `yaml:"subject"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	PollingInterval string                `yaml:"polling_interval"`
	Schedule        string                `yaml:"schedule"`
	SeedOnFirstRun  bool                  `yaml:"seed_on_first_run"`
	State           StateConfig           `yaml:"state"`
	Search          rawSearchConfig       `yaml:"search"`
	Filters         FilterConfig          `yaml:"filters"`
	Notification    rawNotificationConfig `yaml:"notification"`
}

type rawSearchConfig struct {
	APIKey       string   `yaml:"api_key"`
	EngineID     string   `yaml:"engine_id"`
	BaseURL      string   `yaml:"base_url"`
	Query        string   `yaml:"query"`
	ExactTerms   string   `yaml:"exact_terms"`
	ExcludeTerms []string `yaml:"exclude_terms"`
	Sites        []string `yaml:"sites"`
	Geolocation  string   `yaml:"geolocation"`
	Country      string   `yaml:"country"`
	DateRestrict string   `yaml:"date_restrict"`
	MaxPages     int      `yaml:"max_pages"`
	PageSize     int      `yaml:"page_size"`
	PageDelay    string   `yaml:"page_delay"`
	MaxRetries   int      `yaml:"max_retries"`
	RetryDelay   string   `yaml:"retry_delay"`
	Timeout      string   `yaml:"timeout"`
}

type rawNotificationConfig struct {
	Type         string      `yaml:"type"`
	BotToken     string      `yaml:"bot_token"`
	ChatID       string      `yaml:"chat_id"`
	APIURL       string      `yaml:"api_url"`
	WebhookURL   string      `yaml:"webhook_url"`
	Email        EmailConfig `yaml:"email"`
	MessageDelay string      `yaml:"message_delay"`
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in configuration, populated from environment
// variables. It is used when no config file exists.
func Default() (*Config, error) {
	return Parse([]byte(defaultConfig))
}

// Parse expands environment variables in data, parses it as YAML, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	interval, err := durationOr(raw.PollingInterval, 30*time.Minute, "polling_interval")
	if err != nil {
		return nil, err
	}
	pageDelay, err := durationOr(raw.Search.PageDelay, 1*time.Second, "search.page_delay")
	if err != nil {
		return nil, err
	}
	retryDelay, err := durationOr(raw.Search.RetryDelay, 5*time.Second, "search.retry_delay")
	if err != nil {
		return nil, err
	}
	timeout, err := durationOr(raw.Search.Timeout, 30*time.Second, "search.timeout")
	if err != nil {
		return nil, err
	}
	messageDelay, err := durationOr(raw.Notification.MessageDelay, 1*time.Second, "notification.message_delay")
	if err != nil {
		return nil, err
	}

	state := raw.State
	if state.Backend == "" {
		state.Backend = "json"
	}
	if state.Path == "" {
		if state.Backend == "sqlite" {
			state.Path = "jobs.db"
		} else {
			state.Path = "jobs.json"
		}
	}

	notifyType := raw.Notification.Type
	if notifyType == "" {
		notifyType = "telegram"
	}

	email := raw.Notification.Email
	email.Host = strings.TrimSpace(email.Host)
	email.From = strings.TrimSpace(email.From)
	if email.Port == 0 {
		email.Port = 587
	}
	if email.TLS == "" {
		email.TLS = "mandatory"
	}
	if email.Subject == "" {
		email.Subject = "New Job Postings"
	}

	maxPages := raw.Search.MaxPages
	if maxPages == 0 {
		maxPages = 3
	}
	pageSize := raw.Search.PageSize
	if pageSize == 0 {
		pageSize = search.MaxPageSize
	}

	cfg := &Config{
		PollingInterval: interval,
		Schedule:        strings.TrimSpace(raw.Schedule),
		SeedOnFirstRun:  raw.SeedOnFirstRun,
		State:           state,
		Search: SearchConfig{
			APIKey:       strings.TrimSpace(raw.Search.APIKey),
			EngineID:     strings.TrimSpace(raw.Search.EngineID),
			BaseURL:      raw.Search.BaseURL,
			QueryText:    raw.Search.Query,
			ExactTerms:   raw.Search.ExactTerms,
			ExcludeTerms: raw.Search.ExcludeTerms,
			Sites:        raw.Search.Sites,
			Geolocation:  raw.Search.Geolocation,
			Country:      raw.Search.Country,
			DateRestrict: raw.Search.DateRestrict,
			MaxPages:     maxPages,
			PageSize:     pageSize,
			PageDelay:    pageDelay,
			MaxRetries:   raw.Search.MaxRetries,
			RetryDelay:   retryDelay,
			Timeout:      timeout,
		},
		Filters: raw.Filters,
		Notification: NotificationConfig{
			Type:         notifyType,
			BotToken:     strings.TrimSpace(raw.Notification.BotToken),
			ChatID:       strings.TrimSpace(raw.Notification.ChatID),
			APIURL:       raw.Notification.APIURL,
			WebhookURL:   strings.TrimSpace(raw.Notification.WebhookURL),
			Email:        email,
			MessageDelay: messageDelay,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationOr(value string, def time.Duration, field string) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if cfg.Schedule == "" && cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}

	if cfg.Search.APIKey == "" {
		return fmt.Errorf("%w: search.api_key (GOOGLE_API_KEY)", model.ErrConfigMissing)
	}
	if cfg.Search.EngineID == "" {
		return fmt.Errorf("%w: search.engine_id (GOOGLE_CX)", model.ErrConfigMissing)
	}
	if strings.TrimSpace(cfg.Search.QueryText) == "" && len(cfg.Search.Sites) == 0 {
		return fmt.Errorf("search.query or search.sites is required")
	}
	if cfg.Search.MaxPages < 1 {
		return fmt.Errorf("search.max_pages must be at least 1, got %d", cfg.Search.MaxPages)
	}
	if cfg.Search.PageSize < 1 || cfg.Search.PageSize > search.MaxPageSize {
		return fmt.Errorf("search.page_size must be between 1 and %d, got %d", search.MaxPageSize, cfg.Search.PageSize)
	}
	if cfg.Search.MaxRetries < 0 {
		return fmt.Errorf("search.max_retries must not be negative, got %d", cfg.Search.MaxRetries)
	}
	if cfg.Search.PageDelay < 0 || cfg.Notification.MessageDelay < 0 {
		return fmt.Errorf("search.page_delay and notification.message_delay must not be negative")
	}

	switch cfg.State.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("state.backend must be \"json\" or \"sqlite\", got %q", cfg.State.Backend)
	}

	switch cfg.Notification.Type {
	case "telegram":
		if cfg.Notification.BotToken == "" {
			return fmt.Errorf("%w: notification.bot_token (TELEGRAM_BOT_TOKEN)", model.ErrConfigMissing)
		}
		if cfg.Notification.ChatID == "" {
			return fmt.Errorf("%w: notification.chat_id (TELEGRAM_CHAT_ID)", model.ErrConfigMissing)
		}
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("%w: notification.webhook_url", model.ErrConfigMissing)
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	case "email":
		email := cfg.Notification.Email
		if email.Host == "" {
			return fmt.Errorf("%w: notification.email.smtp_host", model.ErrConfigMissing)
		}
		if email.From == "" {
			return fmt.Errorf("%w: notification.email.from", model.ErrConfigMissing)
		}
		if len(email.To) == 0 {
			return fmt.Errorf("%w: notification.email.to", model.ErrConfigMissing)
		}
		if email.Port < 1 || email.Port > 65535 {
			return fmt.Errorf("notification.email.smtp_port must be between 1 and 65535, got %d", email.Port)
		}
		switch email.TLS {
		case "mandatory", "opportunistic", "none", "ssl":
		default:
			return fmt.Errorf("notification.email.tls must be mandatory, opportunistic, none or ssl, got %q", email.TLS)
		}
	case "log":
	default:
		return fmt.Errorf("notification.type must be \"telegram\", \"slack\", \"email\" or \"log\", got %q", cfg.Notification.Type)
	}

	return nil
}
