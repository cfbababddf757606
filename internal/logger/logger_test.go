package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	log := New()

	if log == nil {
		t.Fatal("expected logger to be created")
	}
	if log.logger == nil {
		t.Error("expected slog.Logger to be set")
	}
	if log.GetLevel() != slog.LevelInfo {
		t.Errorf("expected default level to be Info, got %v", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("expected JSON format")
	}
	if ParseFormat("text") != FormatText {
		t.Error("expected text format")
	}
	if ParseFormat("") != FormatText {
		t.Error("expected text format for empty value")
	}
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
}

func TestSlogLogger_LogMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, slog.LevelDebug, FormatText)

	tests := []struct {
		name  string
		fn    func(string, ...any)
		level string
	}{
		{"Debug", log.Debug, "DEBUG"},
		{"Info", log.Info, "INFO"},
		{"Warn", log.Warn, "WARN"},
		{"Error", log.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("test message", "key", "value")

			output := buf.String()
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, "key=value") {
				t.Errorf("expected output to contain key=value, got: %s", output)
			}
		})
	}
}

func TestSlogLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, slog.LevelInfo, FormatJSON)

	log.Info("refreshed", "records", 12)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "refreshed" {
		t.Errorf("expected msg 'refreshed', got %v", entry["msg"])
	}
	if entry["records"] != float64(12) {
		t.Errorf("expected records 12, got %v", entry["records"])
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, slog.LevelInfo, FormatText)

	child := log.With("component", "scheduler")
	child.Info("tick")

	if !strings.Contains(buf.String(), "component=scheduler") {
		t.Errorf("expected component attribute, got: %s", buf.String())
	}

	// level and HTTP toggle are shared with the parent
	log.SetLevel(slog.LevelWarn)
	if child.GetLevel() != slog.LevelWarn {
		t.Errorf("expected child level to follow parent, got %v", child.GetLevel())
	}
	log.EnableHTTPLogging()
	if !child.IsHTTPLoggingEnabled() {
		t.Error("expected child to see HTTP logging toggle")
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(&buf, slog.LevelWarn, FormatText)

	log.Debug("debug message")
	log.Info("info message")
	if buf.Len() > 0 {
		t.Errorf("expected debug/info to be filtered at WARN level, got: %s", buf.String())
	}

	log.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("expected warn message to be logged")
	}
}

func TestSlogLogger_SetLevel(t *testing.T) {
	log := New()

	log.SetLevel(slog.LevelDebug)
	if log.GetLevel() != slog.LevelDebug {
		t.Errorf("expected level to be Debug, got %v", log.GetLevel())
	}
}

func TestSlogLogger_HTTPLogging(t *testing.T) {
	log := New()

	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled by default")
	}
	log.EnableHTTPLogging()
	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}
	log.DisableHTTPLogging()
	if log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be disabled")
	}
}

func TestNop_DiscardsOutput(t *testing.T) {
	log := Nop()
	log.Error("nothing to see")
	if log.GetLevel() != slog.LevelError {
		t.Errorf("expected Nop logger at Error level, got %v", log.GetLevel())
	}
}
