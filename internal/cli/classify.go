package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/edgarwatch/edgarwatch/internal/model"
	"github.com/edgarwatch/edgarwatch/internal/pipeline"
)

var (
	classifyDate string
	classifyForm string
	classifyCIK  string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify a local filing document",
	Long: `Classify runs the matcher, guard chain, and optional model call on a
local HTML or text file, printing the verdict and the deciding excerpt.
Useful for replaying a filing or tuning lexicon overrides offline.

No alert is sent and no dedupe state is written.

Example:
  edgarwatch classify filing.htm --date 2026-08-20
  edgarwatch classify filing.txt --category cyber --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyDate, "date", "", "filing date (YYYY-MM-DD), drives the stale-dated guard")
	classifyCmd.Flags().StringVar(&classifyForm, "form", "8-K", "form type label for output")
	classifyCmd.Flags().StringVar(&classifyCIK, "cik", "0000000000", "entity CIK for dedupe scoping")
	classifyCmd.Flags().StringVar(&category, "category", "", "lexicon category: export-control or cyber")
	classifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "model provider (openai, anthropic, ollama); empty disables the model")
	classifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "model name override")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMonitorFlags(cfg)
	resolveCredentials(cfg)

	// One-off runs never touch persistent state or send alerts.
	cfg.Poll.StateDir = ""
	cfg.Email = model.EmailConfig{}
	if cfg.Output.NoColor {
		color.NoColor = true
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read filing: %w", err)
	}

	var filedAt time.Time
	if classifyDate != "" {
		filedAt, err = time.Parse("2006-01-02", classifyDate)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
	}

	classifier, _, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	verdict := classifier.Classify(cmd.Context(), model.Document{
		Text:     pipeline.HTMLToText(string(raw)),
		EntityID: classifyCIK,
		Form:     classifyForm,
		FiledAt:  filedAt,
	})

	printVerdict(args[0], verdict)
	return nil
}

func printVerdict(path string, v model.Verdict) {
	label := color.New(color.FgGreen, color.Bold)
	if v.Label == model.LabelNew {
		label = color.New(color.FgRed, color.Bold)
	}

	fmt.Printf("%s: ", path)
	label.Printf("%s", v.Label)
	fmt.Printf("  (%s)\n", v.Reason)

	if v.Excerpt != "" {
		fmt.Println()
		color.New(color.Faint).Println(strings.TrimSpace(v.Excerpt))
	}
	if v.Signature != "" {
		fmt.Printf("\nevent signature: %s\n", v.Signature)
	}
}
