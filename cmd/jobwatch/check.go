package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/config"
	"github.com/amishk599/jobwatch/internal/model"
	"github.com/amishk599/jobwatch/internal/notifier"
	"github.com/amishk599/jobwatch/internal/poller"
	"github.com/amishk599/jobwatch/internal/store"
)

var checkNotify bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one cycle, print matches, exit",
	Long:  "One-shot cycle against an empty seen set: every posting found is printed (or sent with --notify). Nothing is written to the store.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "send matches through the configured notifier instead of printing them")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no postings will be marked as seen")

	httpClient := newHTTPClient(cfg)
	var sender model.Sender = notifier.NewLogSender(logger)
	if checkNotify {
		sender, err = setupSender(cfg, httpClient, logger)
		if err != nil {
			logger.Error("failed to set up notifier", "error", err)
			os.Exit(1)
		}
	}
	p := newCheckPoller(cfg, sender, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := p.Poll(ctx)
	if err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete", "fetched", report.Fetched, "filtered", report.Filtered, "matched", report.New)
	return nil
}

// newCheckPoller builds a poller over an always-empty store. Seeding is off:
// with an empty store every check would otherwise be a "first run" and print
// nothing.
func newCheckPoller(cfg *config.Config, sender model.Sender, httpClient *http.Client, logger *slog.Logger) *poller.Poller {
	opts := pollerOptions(cfg)
	opts.SeedOnFirstRun = false
	return buildPoller(cfg, store.NewNopStore(), sender, opts, httpClient, logger)
}
