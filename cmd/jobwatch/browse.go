package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobwatch/internal/browse"
	"github.com/amishk599/jobwatch/internal/filter"
	"github.com/amishk599/jobwatch/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse current search results interactively (TUI)",
	Long:  "Runs the configured search once and shows every result next to the ones not yet notified. Nothing is sent or saved.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
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

	seen, err := seenStore.Load()
	if err != nil && !errors.Is(err, model.ErrStoreCorrupt) {
		logger.Error("failed to load seen set", "error", err)
		os.Exit(1)
	}
	if seen == nil {
		seen = model.NewSeenSet()
	}

	// Any log output while the TUI owns the terminal corrupts the display.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := setupFetcher(cfg, newHTTPClient(cfg), silentLogger)

	postings, err := browse.RunLoader(cfg.Search.Query().FullText(), fetcher, 2*time.Minute)
	if err != nil {
		fmt.Printf("Error fetching postings: %v\n", err)
		return nil
	}

	if len(cfg.Filters.TitleExcludeKeywords) > 0 {
		f := filter.NewTitleFilter(cfg.Filters.TitleExcludeKeywords)
		kept := postings[:0]
		for _, p := range postings {
			if f.Match(p) {
				kept = append(kept, p)
			}
		}
		postings = kept
	}

	if err := browse.Run(postings, seen); err != nil {
		fmt.Printf("TUI error: %v\n", err)
	}
	return nil
}
