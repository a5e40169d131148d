package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		disabled bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"", 0, true},
		{"verbose", 0, true},
	}

	for _, test := range tests {
		got := parseLevel(test.input)
		if test.disabled {
			if got != nil {
				t.Errorf("parseLevel(%q) = %v, want nil", test.input, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parseLevel(%q) = nil, want %v", test.input, test.expected)
			continue
		}
		if *got != test.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", test.input, *got, test.expected)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "nested", "marquee.log")

	logger, err := New("info", logPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("debug message") // Should not appear
	logger.Info("info message")   // Should appear
	logger.Error("error message") // Should appear
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}

	logContent := string(content)
	if strings.Contains(logContent, "debug message") {
		t.Error("debug message should not appear at info level")
	}
	if !strings.Contains(logContent, "info message") {
		t.Error("info message should appear at info level")
	}
	if !strings.Contains(logContent, "error message") {
		t.Error("error message should appear at info level")
	}
}

func TestNew_EmptyLevelDisablesLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "off.log")

	logger, err := New("", logPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("should go nowhere")
	_ = logger.Sync()

	if _, statErr := os.Stat(logPath); !os.IsNotExist(statErr) {
		t.Error("disabled logger should not create a log file")
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("Nop() returned nil")
	}
	logger.Info("discarded")
}
