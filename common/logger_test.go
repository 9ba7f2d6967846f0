package common

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppLogger_LogFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newAppLogger(&buf)
	logger.SetLevel(LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is Warn")
	}

	logger.Warn("warn message")
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Error("Warn message should be logged")
	}

	buf.Reset()
	logger.Error("error message")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Error("Error message should be logged")
	}
}

func TestAppLogger_LogFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := newAppLogger(&buf)
	logger.SetLevel(LevelDebug)

	logger.Info("Connecting to %s", "Paris")

	output := buf.String()
	if !strings.Contains(output, time.Now().Format("2006/01/02")) {
		t.Error("Log should contain date in YYYY/MM/DD format")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Log should contain level indicator")
	}
	if !strings.Contains(output, "logger_test.go") {
		t.Errorf("Log should name the calling file, got %q", output)
	}
	if !strings.Contains(output, "Connecting to Paris") {
		t.Error("Log should contain formatted message")
	}
}

func TestAppLogger_FileOnly(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	logger := newAppLogger(&console)

	if err := logger.EnableFileLogging(dir); err != nil {
		t.Fatalf("EnableFileLogging() error = %v", err)
	}
	logger.SetOutput(io.Discard)
	logger.Info("quiet message")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if console.Len() > 0 {
		t.Error("console should not receive output after SetOutput(io.Discard)")
	}
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "quiet message") {
		t.Errorf("log file = %q, want it to contain the message", data)
	}
}

func TestDefaultLogConfig(t *testing.T) {
	if defaultMaxFileSize != 5*1024*1024 {
		t.Errorf("defaultMaxFileSize = %v, want 5MB", defaultMaxFileSize)
	}
	if defaultMaxBackups != 5 {
		t.Errorf("defaultMaxBackups = %v, want 5", defaultMaxBackups)
	}
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, LogFileName)

	largeContent := strings.Repeat("x", 1024*1024) // 1MB
	if err := os.WriteFile(logFile, []byte(largeContent), 0600); err != nil {
		t.Fatal(err)
	}

	logger := newAppLogger(io.Discard)
	logger.maxFileSize = 512 * 1024
	logger.maxBackups = 2

	logger.rotateIfNeeded(logFile)

	if info, err := os.Stat(logFile); err == nil && info.Size() > 0 {
		t.Error("Original log file should be removed after rotation")
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, LogFileName+".*"))
	if len(matches) == 0 {
		t.Error("Backup file should be created after rotation")
	}
}

func TestAppLogger_CheckRotation(t *testing.T) {
	dir := t.TempDir()
	logger := newAppLogger(io.Discard)
	logger.maxFileSize = 1024

	if err := logger.EnableFileLogging(dir); err != nil {
		t.Fatalf("EnableFileLogging() error = %v", err)
	}
	defer logger.Close()

	for range 50 {
		logger.Info("status poll %s", strings.Repeat("y", 40))
	}
	logger.CheckRotation()
	logger.Info("after rotation")

	matches, _ := filepath.Glob(filepath.Join(dir, LogFileName+".*"))
	if len(matches) != 1 {
		t.Fatalf("backups = %v, want one", matches)
	}
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "after rotation") || strings.Contains(string(data), "status poll") {
		t.Errorf("log file after rotation = %q, want only new messages", data)
	}
}

func TestAppLogger_CheckRotationWithoutFile(t *testing.T) {
	logger := newAppLogger(io.Discard)
	logger.CheckRotation()
	if logger.logFile != nil {
		t.Error("CheckRotation() should not open a file when file logging is off")
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists() should return true for existing file")
	}
	if FileExists("/nonexistent/path/to/file") {
		t.Error("FileExists() should return false for non-existing file")
	}
}

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Paris", "paris"},
		{"  New York ", "new york"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCity(tt.in); got != tt.want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompactStrings(t *testing.T) {
	got := CompactStrings([]string{" example.com ", "", "  ", "*.local"})
	if len(got) != 2 || got[0] != "example.com" || got[1] != "*.local" {
		t.Errorf("CompactStrings() = %v, want [example.com *.local]", got)
	}
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(ErrCLIFailed, "additional context")

	if wrapped == nil {
		t.Fatal("WrapError should return non-nil error")
	}
	if !strings.Contains(wrapped.Error(), "additional context") {
		t.Error("WrapError should include additional context")
	}
	if !errors.Is(wrapped, ErrCLIFailed) {
		t.Error("WrapError should keep the original error in the chain")
	}
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
}

func TestUrgency_String(t *testing.T) {
	if UrgencyCritical.String() != "critical" {
		t.Errorf("UrgencyCritical.String() = %v, want critical", UrgencyCritical.String())
	}
	if Urgency(9).String() != "unknown" {
		t.Errorf("Urgency(9).String() = %v, want unknown", Urgency(9).String())
	}
}
