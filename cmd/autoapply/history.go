package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/autoapply/internal/model"
	"github.com/amishk599/autoapply/internal/store"
	"github.com/amishk599/autoapply/internal/tui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded applications",
	Long:  "Interactive TUI over the job_application table: automatic and supervised submissions side by side.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n recent applications (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

type historySource interface {
	List(ctx context.Context, limit int) ([]model.ApplicationRecord, error)
	Count(ctx context.Context) (int, error)
}

// loadHistory returns the newest limit records and the table total.
func loadHistory(ctx context.Context, src historySource, limit int) ([]model.ApplicationRecord, int, error) {
	records, err := src.List(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	if limit <= 0 || len(records) < limit {
		return records, len(records), nil
	}
	total, err := src.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	return records, total, nil
}

func historySummary(shown, total int) string {
	if shown >= total {
		return ""
	}
	return fmt.Sprintf("Showing the %d most recent of %d applications.", shown, total)
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	sqlStore, err := store.NewSQLiteStore(cfg.Database)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	records, total, err := loadHistory(cmd.Context(), sqlStore, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No applications recorded yet.")
		return nil
	}
	if s := historySummary(len(records), total); s != "" {
		fmt.Println(s)
	}

	return tui.RunHistoryTUI(records)
}
