package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"TRANSLATION", "DATA_DIR", "VOCAB_BOOKS", "SCAN_BOOKS", "MAX_INDEX_PAIRS", "REPORT_FORMAT", "DEBUG", "debug"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Translation != "gwt" {
		t.Errorf("expected translation gwt, got %q", cfg.Translation)
	}
	if cfg.VocabBooks != "gen,exo" || cfg.ScanBooks != "gen,exo" {
		t.Errorf("expected gen,exo subsets, got %q / %q", cfg.VocabBooks, cfg.ScanBooks)
	}
	if cfg.MaxIndexPairs != 25_000_000 {
		t.Errorf("expected default pair bound, got %d", cfg.MaxIndexPairs)
	}
	if cfg.ReportFormat != "text" || cfg.Debug {
		t.Errorf("unexpected output settings: %q debug=%v", cfg.ReportFormat, cfg.Debug)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRANSLATION", "KJV")
	t.Setenv("DATA_DIR", "/var/lib/versefix")
	t.Setenv("MAX_CONCURRENT_READS", "-3")
	t.Setenv("MAX_INDEX_PAIRS", "1_000")
	t.Setenv("RETRY_BASE_DELAY", "50ms")
	t.Setenv("ALLOW_LARGE_INDEX", "true")
	t.Setenv("debug", "1")

	cfg := Load()
	if cfg.Translation != "kjv" {
		t.Errorf("expected lowercased translation, got %q", cfg.Translation)
	}
	if cfg.MaxConcurrentReads != 8 {
		t.Errorf("expected non-positive reads to fall back to 8, got %d", cfg.MaxConcurrentReads)
	}
	if cfg.MaxIndexPairs != 1000 {
		t.Errorf("expected 1000, got %d", cfg.MaxIndexPairs)
	}
	if cfg.RetryBaseDelay != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %s", cfg.RetryBaseDelay)
	}
	if !cfg.AllowLargeIndex || !cfg.Debug {
		t.Error("expected boolean toggles to be set")
	}
	if got, want := cfg.WordpairsPath(), filepath.Join("/var/lib/versefix", "wordpairs"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidate(t *testing.T) {
	base := Load()
	base.Translation = "gwt"
	base.ReportFormat = "text"

	bad := base
	bad.ReportFormat = "pdf"
	if err := bad.Validate(); err == nil {
		t.Error("expected unknown report format to fail")
	}

	bad = base
	bad.Translation = "../etc"
	if err := bad.Validate(); err == nil {
		t.Error("expected path-like translation to fail")
	}

	bad = base
	bad.RetryBaseDelay = time.Minute
	bad.RetryMaxDelay = time.Second
	if err := bad.Validate(); err == nil {
		t.Error("expected inverted retry delays to fail")
	}
}

func TestValidateServer_RequiresAPIKey(t *testing.T) {
	cfg := Load()
	cfg.Translation = "gwt"
	cfg.ReportFormat = "text"
	cfg.VersefixAPIKey = ""
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected missing VERSEFIX_API_KEY to fail")
	}
	cfg.VersefixAPIKey = "secret"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
