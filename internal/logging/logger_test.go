package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(buf, levelVar)
	default:
		handler = &consoleHandler{writer: buf, level: levelVar}
	}
	return slog.New(handler), buf
}

func TestConsoleHandlerFormatsComponentPrefix(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	logger = NewComponentLogger(logger, "tablestore")

	logger.Info("row written", String("slug", "studio-jacket"), Int("rows", 3))

	line := buf.String()
	if !strings.Contains(line, " INFO tablestore: row written") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "slug=studio-jacket") || !strings.Contains(line, "rows=3") {
		t.Fatalf("attrs missing from line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	logger.Warn("skipped", String("reason", "no images found"))

	if !strings.Contains(buf.String(), `reason="no images found"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerUsesCanonicalKeys(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")
	logger.Info("snapshot saved", String("scope", "main"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "scope"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing key %q in %v", key, decoded)
		}
	}
	if decoded["level"] != "info" {
		t.Fatalf("level should be lowercase: %v", decoded["level"])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
