package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backfillWindow int

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Scan recent filings for the tracked universe and exit",
	Long: `Backfill walks each tracked company's submissions record, classifies
target filings inside the window, and exits. Already-seen filings are
skipped; NEW verdicts alert and record exactly like the monitor loop.

Example:
  edgarwatch backfill
  edgarwatch backfill --days 30 --category cyber`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().IntVar(&backfillWindow, "days", 0, "backfill window in days (default from config, 200)")
	backfillCmd.Flags().StringVar(&category, "category", "", "lexicon category: export-control or cyber")
	backfillCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "model provider (openai, anthropic, ollama); empty disables the model")
	backfillCmd.Flags().StringVar(&llmModel, "llm-model", "", "model name override")
	backfillCmd.Flags().StringVar(&stateDir, "state-dir", "", "directory for seen/event state files")
	backfillCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document fetch cache")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMonitorFlags(cfg)
	resolveCredentials(cfg)

	days := cfg.Poll.BackfillDays
	if backfillWindow > 0 {
		days = backfillWindow
	}

	m, err := buildMonitor(cfg, 0)
	if err != nil {
		return err
	}

	if err := m.Backfill(cmd.Context(), days); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}
