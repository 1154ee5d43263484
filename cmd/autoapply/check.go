package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/autoapply/internal/content"
	"github.com/amishk599/autoapply/internal/listing"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Preview the cover letter for the first listing, then exit",
	Long:  "One-shot preview: opens the feed, reads the first listing, prints its details and the generated cover letter. Does not apply.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogger(debug, "")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	lib, err := content.Load(cfg.Library)
	if err != nil {
		logger.Error("failed to load content library", "error", err)
		os.Exit(1)
	}

	lock, err := acquireLock(cfg.LockFile)
	if err != nil {
		logger.Error("browser profile busy", "error", err)
		os.Exit(1)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger}
	page, closePage, err := a.openPage(ctx, logger)
	if err != nil {
		logger.Error("failed to start browser", "error", err)
		os.Exit(1)
	}
	defer closePage()

	if err := listing.NewFeed(page, cfg.FeedURL, cfg.SettleDelay).Restart(ctx); err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	snapshot := listing.NewExtractor(page, cfg.Wait, logger).Snapshot(ctx)
	if !snapshot.Complete() {
		logger.Warn("no listing on the feed")
		return nil
	}

	letter, err := content.NewAssembler(lib).CoverLetter(snapshot)
	if err != nil {
		return fmt.Errorf("build cover letter for %s: %w", snapshot, err)
	}

	fmt.Printf("%s\n", snapshot)
	fmt.Printf("  technologies: %s\n", strings.Join(snapshot.Technologies, ", "))
	fmt.Printf("  office:       %s\n", snapshot.OfficeRequirements)
	fmt.Printf("  locations:    %s\n", strings.Join(snapshot.Locations, ", "))
	if snapshot.Salary != "" {
		fmt.Printf("  salary:       %sK\n", snapshot.Salary)
	}
	fmt.Printf("  link:         %s\n\n", snapshot.WebLink)
	fmt.Println(letter)
	return nil
}
