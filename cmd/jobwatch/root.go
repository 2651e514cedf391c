package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/config"
	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/poller"
	"github.com/amishk599/jobwatch/internal/ratelimit"
	"github.com/amishk599/jobwatch/internal/retry"
	"github.com/amishk599/jobwatch/internal/search"
	"github.com/amishk599/jobwatch/internal/store"
)

var (
	cfgPath string
	envPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobwatch",
	Short: "Job search watcher with Telegram alerts",
	Long:  "jobwatch periodically runs a web search for job postings and sends each posting it has not seen before to a chat.",
	// Default to `start` so that `jobwatch` with no args runs the daemon.
	RunE:          runStart,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBWATCH_CONFIG env var, ./config.yaml, or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "dotenv file loaded before the config is read")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBWATCH_CONFIG env var > "./config.yaml" >
// built-in defaults filled from the environment.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(envPath); err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("JOBWATCH_CONFIG")
	}
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config.yaml: %w", err)
	}
	return config.Default()
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupSender(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Sender, error) {
	switch cfg.Notification.Type {
	case "telegram":
		logger.Info("using telegram sender")
		return notifier.NewTelegramSender(cfg.Notification.APIURL, cfg.Notification.BotToken, cfg.Notification.ChatID, httpClient, logger)
	case "slack":
		logger.Info("using slack sender")
		return notifier.NewSlackSender(cfg.Notification.WebhookURL, httpClient, logger), nil
	case "email":
		email := cfg.Notification.Email
		logger.Info("using email sender", "smtp_host", email.Host, "to", email.To)
		return notifier.NewEmailSender(notifier.EmailSettings{
			Host:     email.Host,
			Port:     email.Port,
			Username: email.Username,
			Password: email.Password,
			TLS:      email.TLS,
			From:     email.From,
			To:       email.To,
			Subject:  email.Subject,
			Timeout:  cfg.Search.Timeout,
		}, logger)
	default:
		return notifier.NewLogSender(logger), nil
	}
}

// setupFetcher wires the provider, optional retries and page pacing into one
// search client.
func setupFetcher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *search.Client {
	query := cfg.Search.Query()
	var pages search.PageFetcher = search.NewCSEFetcher(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.EngineID, query, httpClient)
	if cfg.Search.MaxRetries > 0 {
		pages = retry.NewPageFetcher(pages, cfg.Search.MaxRetries, cfg.Search.RetryDelay, cfg.Search.Timeout, logger)
	}
	pacer := ratelimit.NewPacer("search", cfg.Search.PageDelay)
	return search.NewClient(pages, query, pacer, logger)
}

// openStore opens the configured seen-set backend. The returned close func is
// never nil.
func openStore(cfg *config.Config) (model.SeenStore, func() error, error) {
	switch cfg.State.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.State.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return store.NewJSONFileStore(cfg.State.Path), func() error { return nil }, nil
	}
}

// pollerOptions returns the cycle options described by cfg.
func pollerOptions(cfg *config.Config) poller.Options {
	opts := poller.Options{SeedOnFirstRun: cfg.SeedOnFirstRun}
	if len(cfg.Filters.TitleExcludeKeywords) > 0 {
		opts.Filter = filter.NewTitleFilter(cfg.Filters.TitleExcludeKeywords)
	}
	return opts
}

func buildPoller(cfg *config.Config, seenStore model.SeenStore, sender model.Sender, opts poller.Options, httpClient *http.Client, logger *slog.Logger) *poller.Poller {
	fetcher := setupFetcher(cfg, httpClient, logger)
	dispatcher := notifier.NewDispatcher(sender, cfg.Notification.MessageDelay, logger)
	return poller.NewPoller(fetcher, seenStore, dispatcher, opts, logger)
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Search.Timeout}
}
