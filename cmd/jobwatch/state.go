package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the ids in the seen set",
	Long:  "Prints every canonical posting id that has already been notified, one per line, sorted.",
	RunE:  runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
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
	if err != nil {
		logger.Error("failed to load seen set", "error", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	for _, id := range seen.Sorted() {
		fmt.Fprintln(out, id)
	}
	logger.Info("seen set", "path", cfg.State.Path, "count", seen.Len())
	return nil
}
