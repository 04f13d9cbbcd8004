package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/versefix/internal/config"
	"github.com/dgallion1/versefix/internal/errs"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		Translation:        "gwt",
		DataDir:            filepath.Join(root, "data"),
		TransDir:           filepath.Join(root, "trans"),
		VocabBooks:         "oba",
		ScanBooks:          "oba",
		MaxConcurrentReads: 2,
		MaxRetries:         1,
		RetryBaseDelay:     time.Millisecond,
		RetryMaxDelay:      time.Millisecond,
		MaxIndexPairs:      1_000_000,
		WarnIndexPairs:     1_000_000,
		ReportFormat:       "text",
	}
	if err := os.MkdirAll(filepath.Join(cfg.TransDir, "gwt"), 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun_PrintsReport(t *testing.T) {
	cfg := testConfig(t)
	// Obadiah has a single chapter.
	doc := `<div><span class="verse v1"><span class="label">1</span><span class="content">the vision of  obadiah</span></span>` +
		`<span class="verse v2"><span class="label">2</span><span class="content">the vision of obadiah</span></span></div>`
	if err := os.WriteFile(filepath.Join(cfg.TransDir, "gwt", "OBA.1.gwt"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.DictionaryPath(), []byte("the\nvision\nof\nobadiah\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(context.Background(), cfg, log, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Joined word: ofobadiah (OBA 1:1) [of+obadiah]\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRun_MissingDictionary(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &out)
	if !errs.IsMissing(err) {
		t.Fatalf("expected MissingInputError, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no report output, got %q", out.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportFormat = "yaml"
	err := run(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard)
	if err == nil {
		t.Fatal("expected configuration error")
	}
}
