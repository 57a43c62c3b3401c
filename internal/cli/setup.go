package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/edgarwatch/edgarwatch/internal/cache"
	"github.com/edgarwatch/edgarwatch/internal/classify"
	"github.com/edgarwatch/edgarwatch/internal/dedupe"
	"github.com/edgarwatch/edgarwatch/internal/lexicon"
	"github.com/edgarwatch/edgarwatch/internal/llm"
	"github.com/edgarwatch/edgarwatch/internal/model"
	"github.com/edgarwatch/edgarwatch/internal/notify"
	"github.com/edgarwatch/edgarwatch/internal/pipeline"
)

// loadConfig builds the effective configuration: defaults, overlaid by the
// config file and EDGARWATCH_* env via viper, plus credential env vars that
// never live in the file.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// resolveCredentials pulls secrets from the environment. Called after flag
// overrides so the key matches the effective provider.
func resolveCredentials(cfg *model.Config) {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			cfg.LLM.BaseURL = base
		}
	}
	if user := os.Getenv("GMAIL_USER"); user != "" {
		cfg.Email.User = user
	}
	cfg.Email.Password = os.Getenv("GMAIL_APP_PASSWORD")
	if rcpts := os.Getenv("EMAIL_RECIPIENTS"); rcpts != "" {
		cfg.Email.Recipients = splitRecipients(rcpts)
	}
}

func splitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// resolveLexicon picks the term set: an override file when configured,
// otherwise the built-in lexicon for the category.
func resolveLexicon(cfg *model.Config) (lexicon.Lexicon, error) {
	if cfg.Classify.LexiconFile != "" {
		return lexicon.LoadFile(cfg.Classify.LexiconFile)
	}
	return lexicon.ForCategory(cfg.Classify.Category)
}

// buildClassifier wires lexicon, model provider, dedupe store, and notifier
// into a classifier. The returned store is the caller's to save.
func buildClassifier(cfg *model.Config) (*classify.Classifier, *dedupe.Store, error) {
	lex, err := resolveLexicon(cfg)
	if err != nil {
		return nil, nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		provider, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: model provider unavailable, guards only: %v\n", err)
		}
	}

	store := dedupe.NewStore()
	if cfg.Poll.StateDir != "" {
		store = dedupe.Load(filepath.Join(cfg.Poll.StateDir, "events_seen.json"))
	}

	var notifier classify.Notifier
	mailer := notify.NewMailer(cfg.Email)
	if mailer.Enabled() {
		notifier = mailer
	}

	return classify.New(classify.Options{
		Lexicon:          lex,
		Provider:         provider,
		Store:            store,
		Notifier:         notifier,
		FreshnessDays:    cfg.Classify.FreshnessDays,
		DedupeWindowDays: cfg.Classify.DedupeWindowDays,
		DebugGuards:      cfg.Classify.DebugGuards,
	}), store, nil
}

// buildMonitor assembles the full polling pipeline.
func buildMonitor(cfg *model.Config, backfillDays int) (*pipeline.Monitor, error) {
	classifier, store, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		fetchCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	var universe pipeline.Universe
	if cfg.Poll.UniverseFile != "" {
		if universe, err = pipeline.LoadUniverse(cfg.Poll.UniverseFile); err != nil {
			return nil, err
		}
	}

	return pipeline.NewMonitor(pipeline.MonitorOptions{
		Fetcher:      pipeline.NewFetcher(cfg.HTTP, fetchCache),
		Classifier:   classifier,
		Universe:     universe,
		TargetForms:  cfg.Poll.TargetForms,
		Seen:         pipeline.LoadSeen(filepath.Join(cfg.Poll.StateDir, "seen_filings.json")),
		Events:       store,
		Interval:     cfg.Poll.Interval,
		BackfillDays: backfillDays,
		Workers:      cfg.Concurrency.Workers,
		Verbose:      cfg.Output.Verbose,
	}), nil
}
