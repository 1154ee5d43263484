package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Apply repeatedly on an interval",
	Long:  "Run a session, wait watch.interval, and repeat; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	sched := scheduler.NewScheduler(scheduler.RunnerFunc(a.runSession), cfg.Watch.Interval, logger)
	if err := sched.Run(ctx); err != nil && !errors.Is(err, model.ErrOperatorAbort) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
