package model

import "time"

// Config is the complete edgarwatch configuration.
// Hierarchy: CLI flags > EDGARWATCH_* env > ~/.edgarwatch/config.yaml > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Poll        PollConfig        `yaml:"poll" mapstructure:"poll"`
	Classify    ClassifyConfig    `yaml:"classify" mapstructure:"classify"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Email       EmailConfig       `yaml:"email" mapstructure:"email"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the EDGAR fetcher.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// PollConfig controls the monitor loop and backfill.
type PollConfig struct {
	Interval     time.Duration `yaml:"interval" mapstructure:"interval"`
	RunOnce      bool          `yaml:"run_once" mapstructure:"run_once"`
	BackfillDays int           `yaml:"backfill_days" mapstructure:"backfill_days"`
	TargetForms  []string      `yaml:"target_forms" mapstructure:"target_forms"`
	StateDir     string        `yaml:"state_dir" mapstructure:"state_dir"`
	UniverseFile string        `yaml:"universe_file" mapstructure:"universe_file"` // optional YAML override of the tracked issuers
}

// ClassifyConfig holds the classification thresholds.
type ClassifyConfig struct {
	Category         string `yaml:"category" mapstructure:"category"`                   // export-control | cyber
	LexiconFile      string `yaml:"lexicon_file" mapstructure:"lexicon_file"`           // optional YAML override
	FreshnessDays    int    `yaml:"freshness_days" mapstructure:"freshness_days"`       // stale-dated guard
	DedupeWindowDays int    `yaml:"dedupe_window_days" mapstructure:"dedupe_window_days"`
	DebugGuards      bool   `yaml:"debug_guards" mapstructure:"debug_guards"`
}

// LLMConfig configures the external model call.
type LLMConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, ""
	Model           string `yaml:"model" mapstructure:"model"`
	APIKey          string `yaml:"-" mapstructure:"-"` // env only, never written to disk
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	Timeout         int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxExcerptChars int    `yaml:"max_excerpt_chars" mapstructure:"max_excerpt_chars"`
}

// EmailConfig configures SMTP alert delivery.
type EmailConfig struct {
	SMTPHost   string   `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort   int      `yaml:"smtp_port" mapstructure:"smtp_port"`
	User       string   `yaml:"user" mapstructure:"user"`
	Password   string   `yaml:"-" mapstructure:"-"` // env only
	Recipients []string `yaml:"recipients" mapstructure:"recipients"`
}

// CacheConfig controls document fetch caching (used by backfill).
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig controls parallel backfill processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "edgarwatch/0.1 (+https://github.com/edgarwatch/edgarwatch)",
			MaxBodyBytes:      5_000_000,
			RequestsPerSecond: 4,
			Burst:             4,
			MaxRetries:        4,
			RespectRobots:     false, // EDGAR endpoints are rate-limited by UA policy, not robots.txt
		},
		Poll: PollConfig{
			Interval:     15 * time.Minute,
			BackfillDays: 200,
			TargetForms:  []string{"8-K", "10-Q", "10-K", "6-K"},
			StateDir:     ".",
		},
		Classify: ClassifyConfig{
			Category:         "export-control",
			FreshnessDays:    60,
			DedupeWindowDays: 180,
		},
		LLM: LLMConfig{
			Provider:        "", // Disabled by default; guards still run
			Timeout:         30,
			MaxExcerptChars: 2000,
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 465,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".edgarwatch-cache",
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
