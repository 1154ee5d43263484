package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/autoapply/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk the feed once and apply",
	Long:  "Open the feed in the configured browser profile and apply to listings until the feed runs out.",
	RunE:  runApply,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger(debug, "")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.LogFile != "" {
		logger, closeLog, err = setupLogger(debug, cfg.LogFile)
		if err != nil {
			return err
		}
	}
	defer closeLog()

	logger.Info("config loaded",
		"feed_url", cfg.FeedURL,
		"library", cfg.Library,
		"method", method(),
		"diagnostic", diagnostic,
	)

	lock, err := acquireLock(cfg.LockFile)
	if err != nil {
		logger.Error("browser profile busy", "error", err)
		os.Exit(1)
	}
	defer lock.Unlock()

	a, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.runSession(ctx); err != nil {
		if errors.Is(err, model.ErrOperatorAbort) || errors.Is(err, context.Canceled) {
			logger.Info("run ended early", "reason", err)
			return nil
		}
		logger.Error("session failed", "error", err)
		return err
	}

	logger.Info("goodbye")
	return nil
}
