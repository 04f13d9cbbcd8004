// Command versefix reports words in a Bible translation that look like two
// words run together.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dgallion1/versefix/internal/config"
	"github.com/dgallion1/versefix/internal/pipeline"
	"github.com/dgallion1/versefix/internal/report"
)

var CLI struct {
	Translation string `arg:"" optional:"" help:"Translation code, e.g. gwt. Defaults to $TRANSLATION or gwt."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("versefix"),
		kong.Description("Find joined words in a Bible translation."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	if CLI.Translation != "" {
		cfg.Translation = strings.ToLower(CLI.Translation)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error("versefix failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run prepares the analysis and streams the report to out.
func run(ctx context.Context, cfg config.Config, log *slog.Logger, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log = log.With("translation", cfg.Translation)

	runner := pipeline.NewRunner(cfg, log)
	defer runner.Close()

	analysis, err := runner.Prepare(ctx)
	if err != nil {
		return err
	}

	buf := bufio.NewWriter(out)
	w, err := report.New(cfg.ReportFormat, buf)
	if err != nil {
		return err
	}

	start := time.Now()
	sum, err := runner.Scan(ctx, analysis, cfg.ScanBooks, w)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("scan finished",
		"books", cfg.ScanBooks,
		"chapters", sum.Chapters,
		"verses", sum.Verses,
		"tokens", sum.Tokens,
		"flagged", sum.Flagged,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
