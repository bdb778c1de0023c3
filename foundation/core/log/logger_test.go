// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context fields, formatters,
//              timers and the configuration factory.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2026-10-19 v0.2.0: Factory and error severity tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf, Name: "test"}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	logger := New()
	if logger.level != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.level, DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatJSON)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %s", len(lines), buf.String())
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v", lines)
	}

	if logger.IsLevelEnabled(LevelInfo) || !logger.IsLevelEnabled(LevelError) {
		t.Error("IsLevelEnabled() disagrees with the warn threshold")
	}
}

func TestWithFieldIsImmutable(t *testing.T) {
	base, buf := newBufferLogger(LevelDebug, FormatJSON)
	child := base.WithField("component", "parser")

	base.Info("from base")
	child.Info("from child", Fields{"expr": "t"})

	lines := decodeLines(t, buf)
	if _, ok := lines[0]["component"]; ok {
		t.Error("WithField() modified the parent logger")
	}
	if lines[1]["component"] != "parser" || lines[1]["expr"] != "t" {
		t.Errorf("child line = %v", lines[1])
	}
	if lines[1]["logger"] != "test" {
		t.Errorf("logger name = %v, want test", lines[1]["logger"])
	}
}

func TestWithFieldsAddsContext(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithFields(Fields{"remote": "127.0.0.1", "kind": "ws"}).Info("connected")

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["remote"] != "127.0.0.1" || lines[0]["kind"] != "ws" {
		t.Errorf("unexpected entry: %v", lines)
	}
}

func TestDefaultLogger(t *testing.T) {
	prev := GetDefault()
	defer SetDefault(prev)

	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	SetDefault(logger)
	GetDefault().ErrorWithErr("failed", errors.New("boom"))

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["level"] != "error" {
		t.Errorf("unexpected entry: %v", lines)
	}
}

func TestWithRequestID(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.WithRequestID("abc").Info("hello")

	if !strings.Contains(buf.String(), "(req=abc)") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestLogErrorUsesSeverity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		level    string
		category interface{}
		origin   bool
	}{
		{"data failure", mdwerror.New("bad cell").WithCode(mdwerror.CodeCoercion), "info", "data", false},
		{"syntax", mdwerror.New("bad command").WithCode(mdwerror.CodeSyntax), "warn", "command", false},
		{"config", mdwerror.New("bad file").WithCode(mdwerror.CodeInvalidConfig), "error", "configuration", true},
		{"plain", errors.New("boom"), "error", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)
			lines := decodeLines(t, buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines", len(lines))
			}
			if lines[0]["level"] != tt.level {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.level)
			}
			if lines[0]["error_category"] != tt.category {
				t.Errorf("error_category = %v, want %v", lines[0]["error_category"], tt.category)
			}
			if _, ok := lines[0]["error_origin"]; ok != tt.origin {
				t.Errorf("error_origin present = %v, want %v", ok, tt.origin)
			}
		})
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := &TextFormatter{DisableTimestamp: true}
	entry := NewEntry(LevelInfo, "msg")
	entry.Fields = Fields{"b": 2, "a": 1}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out), "[INF] msg [a=1 b=2]\n"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	timer := logger.StartTimer("process")
	timer.Stop()
	if timer.Stop() != 0 {
		t.Error("second Stop() should return 0")
	}

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "process completed" {
		t.Errorf("timer output = %v", lines)
	}
	if _, ok := lines[0]["duration_ms"]; !ok {
		t.Error("missing duration_ms")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("WARNING"); err != nil || l != LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("console"); err != nil || f != FormatConsole {
		t.Errorf("ParseFormat(console) = %v, %v", f, err)
	}
}

func TestNewFromConfigWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "textomat.log")
	logger, closer, err := NewFromConfig(FactoryConfig{
		Name:   "textomat",
		Level:  "debug",
		Format: "text",
		File:   path,
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	logger.Debug("written")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewFromConfigRejectsBadLevel(t *testing.T) {
	if _, _, err := NewFromConfig(FactoryConfig{Level: "nope"}); err == nil {
		t.Error("expected error")
	}
}
