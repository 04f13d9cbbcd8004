package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Corpus
	Translation  string
	DataDir      string
	TransDir     string
	SourceURL    string
	FetchMissing bool
	VocabBooks   string
	ScanBooks    string

	// Reads and retries
	MaxConcurrentReads int
	MaxRetries         int
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	FetchTimeout       time.Duration

	// Concatenation index
	MaxIndexPairs     int64
	WarnIndexPairs    int64
	AllowLargeIndex   bool
	RebuildStaleIndex bool

	// Output
	ReportFormat string
	Debug        bool

	// Server
	Port           string
	VersefixAPIKey string
	WorkerCount    int
	MaxQueueSize   int
	JobTTL         time.Duration
	MaxJobFlags    int
}

func Load() Config {
	cfg := Config{
		Translation:  strings.ToLower(envOr("TRANSLATION", "gwt")),
		DataDir:      envOr("DATA_DIR", "."),
		TransDir:     envOr("TRANS_DIR", "trans"),
		SourceURL:    strings.TrimRight(envOr("SOURCE_URL", "https://www.youversion.com/bible/416"), "/"),
		FetchMissing: envBool("FETCH_MISSING", true),
		VocabBooks:   envOr("VOCAB_BOOKS", "gen,exo"),
		ScanBooks:    envOr("SCAN_BOOKS", "gen,exo"),

		MaxConcurrentReads: envInt("MAX_CONCURRENT_READS", 8),
		MaxRetries:         envInt("MAX_RETRIES", 5),
		RetryBaseDelay:     envDuration("RETRY_BASE_DELAY", 200*time.Millisecond),
		RetryMaxDelay:      envDuration("RETRY_MAX_DELAY", 10*time.Second),
		FetchTimeout:       envDuration("FETCH_TIMEOUT", 30*time.Second),

		MaxIndexPairs:     envInt64("MAX_INDEX_PAIRS", 25_000_000),
		WarnIndexPairs:    envInt64("WARN_INDEX_PAIRS", 5_000_000),
		AllowLargeIndex:   envBool("ALLOW_LARGE_INDEX", false),
		RebuildStaleIndex: envBool("REBUILD_STALE_INDEX", false),

		ReportFormat: strings.ToLower(envOr("REPORT_FORMAT", "text")),
		Debug:        envBool("DEBUG", false) || os.Getenv("debug") != "",

		Port:           envOr("PORT", "8091"),
		VersefixAPIKey: os.Getenv("VERSEFIX_API_KEY"),
		WorkerCount:    envInt("WORKER_COUNT", 2),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 16),
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
		MaxJobFlags:    envInt("MAX_JOB_FLAGS", 10000),
	}

	if cfg.MaxConcurrentReads <= 0 {
		cfg.MaxConcurrentReads = 8
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 5
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 200 * time.Millisecond
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = 10 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxIndexPairs <= 0 {
		cfg.MaxIndexPairs = 25_000_000
	}
	if cfg.WarnIndexPairs <= 0 {
		cfg.WarnIndexPairs = 5_000_000
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxJobFlags <= 0 {
		cfg.MaxJobFlags = 10000
	}

	return cfg
}

// Validate checks the settings shared by the CLI and the server.
func (c Config) Validate() error {
	if c.Translation == "" {
		return fmt.Errorf("TRANSLATION must not be empty")
	}
	if strings.ContainsAny(c.Translation, `/\.`) {
		return fmt.Errorf("TRANSLATION %q must be a bare code", c.Translation)
	}
	switch c.ReportFormat {
	case "text", "csv", "markdown", "md", "html":
	default:
		return fmt.Errorf("REPORT_FORMAT %q is not one of text, csv, markdown, html", c.ReportFormat)
	}
	if c.FetchMissing && c.SourceURL == "" {
		return fmt.Errorf("SOURCE_URL is required when FETCH_MISSING is set")
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		return fmt.Errorf("RETRY_MAX_DELAY (%s) is below RETRY_BASE_DELAY (%s)", c.RetryMaxDelay, c.RetryBaseDelay)
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VersefixAPIKey == "" {
		return fmt.Errorf("VERSEFIX_API_KEY is required")
	}
	return nil
}

// DictionaryPath is the newline-delimited ground-truth word list.
func (c Config) DictionaryPath() string {
	return filepath.Join(c.DataDir, "words")
}

func (c Config) WordlistPath() string {
	return filepath.Join(c.DataDir, "wordlist")
}

func (c Config) WordpairsPath() string {
	return filepath.Join(c.DataDir, "wordpairs")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(strings.ReplaceAll(v, "_", ""), 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
