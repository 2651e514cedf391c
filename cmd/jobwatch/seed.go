package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/notifier"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Mark current results as seen without notifying",
	Long:  "Runs one search and adds every posting found to the seen set, so the daemon only reports postings that appear afterwards.",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	seenStore, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Seeding never dispatches; the log sender only satisfies the wiring.
	p := buildPoller(cfg, seenStore, notifier.NewLogSender(logger), pollerOptions(cfg), newHTTPClient(cfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := p.Seed(ctx)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete", "fetched", report.Fetched, "saved", report.Saved)
	return nil
}
