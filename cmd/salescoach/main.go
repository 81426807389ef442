package main

/*
salescoach analyzes sales-conversation transcripts from chunked CSV files:
it classifies speakers, detects lexical patterns, infers the conversation
stage, generates playbook suggestions, and persists everything to SQLite.

Usage:
  go run ./cmd/salescoach setup --db out/coach.db
  go run ./cmd/salescoach analyze --input_dir data/chunked_transcripts --db out/coach.db
  go run ./cmd/salescoach report --db out/coach.db --out_md out/analytics.md
  go run ./cmd/salescoach watch --input_dir data/incoming --db out/coach.db
*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tetraminz/sales_coach/internal/report"
	"github.com/tetraminz/sales_coach/internal/store"
)

const defaultDBPath = "out/coach.db"

func main() {
	if err := runCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runCLI() error {
	if len(os.Args) < 2 {
		printUsage()
		return nil
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "setup":
		return runSetupCmd(args)
	case "analyze":
		return runAnalyzeCmd(args)
	case "report":
		return runReportCmd(args)
	case "watch":
		return runWatchCmd(args)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func newLogger(rawLevel string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(strings.TrimSpace(rawLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("service", "salescoach").
		Logger()
}

func runSetupCmd(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	dbPath := fs.String("db", defaultDBPath, "path to SQLite DB file")
	logLevel := fs.String("log_level", envOr("SALESCOACH_LOG_LEVEL", "info"), "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(*logLevel)
	if err := store.Setup(*dbPath); err != nil {
		return err
	}
	logger.Info().Str("db", *dbPath).Msg("schema reset")
	return nil
}

func runAnalyzeCmd(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	inputDir := fs.String("input_dir", envOr("SALESCOACH_INPUT_DIR", ""), "directory containing conversation CSV files")
	dbPath := fs.String("db", envOr("SALESCOACH_DB", defaultDBPath), "path to SQLite DB file")
	filterPrefix := fs.String("filter_prefix", "", "optional filename prefix filter")
	limit := fs.Int("limit", 0, "optional max conversations to process (0 = all)")
	trustSpeaker := fs.Bool("trust_speaker", false, "use transcript speaker labels instead of the classifier when present")
	logLevel := fs.String("log_level", envOr("SALESCOACH_LOG_LEVEL", "info"), "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*inputDir) == "" {
		return fmt.Errorf("--input_dir is required")
	}

	logger := newLogger(*logLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, AnalyzeConfig{
		InputDir:     *inputDir,
		DBPath:       *dbPath,
		FilterPrefix: *filterPrefix,
		Limit:        *limit,
		TrustSpeaker: *trustSpeaker,
	}, logger)
}

func runReportCmd(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	dbPath := fs.String("db", envOr("SALESCOACH_DB", defaultDBPath), "path to SQLite DB file")
	outMD := fs.String("out_md", "", "optional markdown output path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if strings.TrimSpace(*outMD) != "" {
		markdown, err := report.BuildMarkdown(s)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*outMD, []byte(markdown), 0o644); err != nil {
			return fmt.Errorf("write %q: %w", *outMD, err)
		}
		fmt.Printf("report_written path=%s\n", *outMD)
		return nil
	}

	metrics, err := report.Build(s)
	if err != nil {
		return err
	}
	fmt.Print(report.Format(metrics))
	return nil
}

func runWatchCmd(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	inputDir := fs.String("input_dir", envOr("SALESCOACH_INPUT_DIR", ""), "directory to watch for conversation CSV files")
	dbPath := fs.String("db", envOr("SALESCOACH_DB", defaultDBPath), "path to SQLite DB file")
	logLevel := fs.String("log_level", envOr("SALESCOACH_LOG_LEVEL", "info"), "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*inputDir) == "" {
		return fmt.Errorf("--input_dir is required")
	}

	logger := newLogger(*logLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runWatch(ctx, *inputDir, *dbPath, logger)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  salescoach setup --db out/coach.db")
	fmt.Println("  salescoach analyze --input_dir data/chunked_transcripts --db out/coach.db")
	fmt.Println("  salescoach report --db out/coach.db [--out_md out/analytics.md]")
	fmt.Println("  salescoach watch --input_dir data/incoming --db out/coach.db")
}
