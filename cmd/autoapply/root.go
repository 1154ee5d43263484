package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/amishk599/autoapply/internal/config"
	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/notifier"
)

var (
	cfgPath    string
	debug      bool
	autoMode   bool
	diagnostic bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Apply to Otta listings from a reusable content library",
	Long: "Autoapply walks the Otta job feed in a logged-in browser, builds a cover letter for each " +
		"listing from your content library, answers the application questions and records every submission.",
	// Default to `run` so that `autoapply` with no args applies once.
	RunE:         runApply,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: AUTOAPPLY_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&autoMode, "auto", false, "unattended run: headless browser, applications tagged otta-auto")
	rootCmd.PersistentFlags().BoolVar(&diagnostic, "diagnostic", false, "stop at the first failed listing and pause for the operator at each step")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "do not record applications in the database")
}

// loadConfig resolves the config path, loads .env next to it and parses it.
// Priority: explicit path arg > AUTOAPPLY_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	path = config.ResolvePath(path)
	if err := config.LoadEnv(path); err != nil {
		return nil, err
	}
	return config.Load(path)
}

// setupLogger builds the text logger. When logFile is set, records go to the
// file as well as stdout; the returned closer releases the file.
func setupLogger(dbg bool, logFile string) (*slog.Logger, func() error, error) {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	closer := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f.Close
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: logLevel})), closer, nil
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// acquireLock takes an exclusive lock so two sessions never drive the same
// browser profile. The returned lock must be unlocked by the caller.
func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another session holds %s", path)
	}
	return lock, nil
}

// method is the tag stored with every application of this run.
func method() model.Method {
	if autoMode {
		return model.MethodAuto
	}
	return model.MethodManual
}
