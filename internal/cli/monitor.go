package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

var (
	runOnce      bool
	noBackfill   bool
	pollInterval time.Duration
	backfillDays int
	category     string
	llmProvider  string
	llmModel     string
	stateDir     string
	noCache      bool
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll EDGAR continuously and alert on NEW disclosures",
	Long: `Monitor runs the full loop: an optional startup backfill over the
submissions API, then repeated polls of the global current-events feed.

Target filings are fetched, scanned for term co-occurrences, run through
the guard chain, and optionally sent to a language model. NEW verdicts
send email alerts and are recorded for cross-filing dedupe.

Example:
  edgarwatch monitor
  edgarwatch monitor --once --no-backfill
  edgarwatch monitor --category cyber --llm-provider anthropic
  edgarwatch monitor --interval 5m --backfill-days 30`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().BoolVar(&runOnce, "once", false, "poll once and exit (for cron or CI schedules)")
	monitorCmd.Flags().BoolVar(&noBackfill, "no-backfill", false, "skip the startup backfill")
	monitorCmd.Flags().DurationVar(&pollInterval, "interval", 0, "poll interval (default from config, 15m)")
	monitorCmd.Flags().IntVar(&backfillDays, "backfill-days", 0, "startup backfill window in days (default from config, 200)")
	monitorCmd.Flags().StringVar(&category, "category", "", "lexicon category: export-control or cyber")
	monitorCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "model provider (openai, anthropic, ollama); empty disables the model")
	monitorCmd.Flags().StringVar(&llmModel, "llm-model", "", "model name override")
	monitorCmd.Flags().StringVar(&stateDir, "state-dir", "", "directory for seen/event state files")
	monitorCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the document fetch cache")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMonitorFlags(cfg)
	resolveCredentials(cfg)

	days := cfg.Poll.BackfillDays
	if noBackfill {
		days = 0
	}

	m, err := buildMonitor(cfg, days)
	if err != nil {
		return err
	}

	fmt.Println("============================================================")
	fmt.Printf("edgarwatch monitor, category: %s\n", cfg.Classify.Category)
	fmt.Printf("Model provider: %s\n", orDisabled(cfg.LLM.Provider))
	fmt.Printf("Email alerts: %s\n", emailStatus(cfg))
	fmt.Printf("Forms: %v, poll interval: %s, backfill: %d day(s)\n", cfg.Poll.TargetForms, cfg.Poll.Interval, days)
	fmt.Println("============================================================")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx, runOnce || cfg.Poll.RunOnce); err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Println("\nStopped. State saved.")
	}
	return nil
}

func applyMonitorFlags(cfg *model.Config) {
	if pollInterval > 0 {
		cfg.Poll.Interval = pollInterval
	}
	if backfillDays > 0 {
		cfg.Poll.BackfillDays = backfillDays
	}
	if category != "" {
		cfg.Classify.Category = category
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if stateDir != "" {
		cfg.Poll.StateDir = stateDir
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

func orDisabled(s string) string {
	if s == "" {
		return "disabled (guards only)"
	}
	return s
}

func emailStatus(cfg *model.Config) string {
	if cfg.Email.User != "" && cfg.Email.Password != "" && len(cfg.Email.Recipients) > 0 {
		return fmt.Sprintf("enabled (%d recipient(s))", len(cfg.Email.Recipients))
	}
	return "disabled (set GMAIL_USER and GMAIL_APP_PASSWORD)"
}
