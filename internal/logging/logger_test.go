package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subberthehut/internal/config"
	"subberthehut/internal/services"
)

func newBufferLogger(level slog.Level, format string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	if format == "json" {
		return slog.New(newJSONHandler(&buf, lvl, false)), &buf
	}
	return slog.New(newPrettyHandler(&buf, lvl, false)), &buf
}

func TestConsoleHandlerFormatsSubjectAndFields(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo, "console")
	ctx := services.WithFile(context.Background(), "/media/movie.mkv", 2)
	ctx = services.WithRequestID(ctx, "run-1")
	logger = WithContext(ctx, NewComponentLogger(logger, "fetch"))

	logger.Info("subtitle saved", String("destination", "/media/movie.srt"), Int64("written_bytes", 2048))

	line := buf.String()
	for _, want := range []string{"INFO [fetch] File #2 – subtitle saved", "destination=/media/movie.srt", `written_bytes="2.0 kB"`, "file=/media/movie.mkv"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "run_id") {
		t.Fatalf("run_id should be hidden above debug: %q", line)
	}
}

func TestConsoleHandlerShowsRunIDAtDebug(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelDebug, "console")
	logger = WithContext(services.WithRequestID(context.Background(), "run-1"), logger)
	logger.Debug("search complete")
	if !strings.Contains(buf.String(), "run_id=run-1") {
		t.Fatalf("expected run_id at debug: %q", buf.String())
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo, "json")
	logger.Warn("no subtitles found", String(FieldEventType, "subtitle_no_results"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json: %v (%s)", err, buf.String())
	}
	if payload["level"] != "warn" || payload["msg"] != "no subtitles found" || payload["ts"] == nil {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload[FieldEventType] != "subtitle_no_results" {
		t.Fatalf("missing event type: %v", payload)
	}
}

func TestApplyQuiet(t *testing.T) {
	tests := []struct {
		level slog.Level
		quiet int
		want  slog.Level
	}{
		{slog.LevelInfo, 0, slog.LevelInfo},
		{slog.LevelInfo, 1, slog.LevelWarn},
		{slog.LevelInfo, 2, slog.LevelError},
		{slog.LevelInfo, 5, slog.LevelError},
		{slog.LevelError, 1, slog.LevelError},
		{slog.LevelDebug, 0, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := applyQuiet(tt.level, tt.quiet); got != tt.want {
			t.Fatalf("applyQuiet(%v, %d) = %v, want %v", tt.level, tt.quiet, got, tt.want)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelInfo, "console")
	WarnWithContext(logger, "catalog logout failed", "catalog_logout_failed")
	line := buf.String()
	for _, want := range []string{"event_type=catalog_logout_failed", "error_hint=", "impact="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg, 0)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "subberthehut.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("unexpected log file contents %q", data)
	}

	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
