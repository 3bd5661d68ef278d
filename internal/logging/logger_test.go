package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"creatorpay/internal/config"
	"creatorpay/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("report generated", logging.Int("creators", 3))

	content := readLog(t, filepath.Join(cfg.Logging.Dir, logging.LogFileName))
	if !strings.Contains(content, "report generated") || !strings.Contains(content, "Creators: 3") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller", logging.String("handle", "mathwithjohn"))

	content := readLog(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, "handle: mathwithjohn") {
		t.Fatalf("expected raw debug attributes, got %q", content)
	}
}

func TestConsoleHeaderCarriesComponentAndSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithModel(logging.WithCreator(context.Background(), "Riley"), "hybrid")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "pipeline"))
	logger.Info("creator priced", logging.Float64("total_cost", 210))

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO [pipeline] hybrid · Riley - creator priced") {
		t.Fatalf("unexpected header %q", content)
	}
	if !strings.Contains(content, "Total Cost: 210") {
		t.Fatalf("expected highlighted field, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	base, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRequestID(logging.WithRunID(context.Background(), "run-1"), "req-9")
	logging.WithContext(ctx, base).Info("upload accepted")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "upload accepted" || entry["level"] != "info" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["run_id"] != "run-1" || entry["request_id"] != "req-9" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %v", entry)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "roster entry skipped", "roster_skip",
		logging.String(logging.FieldErrorHint, "fix the roster line"),
		logging.Error(errors.New("bad type")),
	)

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldEventType] != "roster_skip" {
		t.Fatalf("event type missing: %v", entry)
	}
	if entry[logging.FieldErrorHint] != "fix the roster line" {
		t.Fatalf("explicit hint overwritten: %v", entry)
	}
	if entry[logging.FieldImpact] == nil {
		t.Fatalf("impact default missing: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestContextHelpersIgnoreBlankValues(t *testing.T) {
	ctx := logging.WithRunID(context.Background(), "  ")
	if _, ok := logging.RunIDFromContext(ctx); ok {
		t.Fatal("blank run id should not be stored")
	}
	if fields := logging.ContextFields(ctx); len(fields) != 0 {
		t.Fatalf("unexpected fields %v", fields)
	}
	if logging.WithContext(ctx, nil) == nil {
		t.Fatal("expected nop logger")
	}
}

func TestConsoleInfoFormatsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("totals").Info("report built",
		logging.Float64("total_cost", 1234.5),
		logging.String(logging.FieldRunID, "run-7"),
	)

	content := readLog(t, logPath)
	if !strings.Contains(content, "- Totals Total Cost: 1234.50") {
		t.Fatalf("expected grouped money field, got %q", content)
	}
	if strings.Contains(content, "run-7") || !strings.Contains(content, "+ 1 more field hidden") {
		t.Fatalf("expected run id hidden on info lines, got %q", content)
	}
}
