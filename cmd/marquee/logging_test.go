package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/marquee/config"
)

func restoreStdLog(t *testing.T) {
	t.Helper()
	out, flags := log.Writer(), log.Flags()
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
}

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	restoreStdLog(t)

	logger, closeLog, err := setupLogging(config.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	defer closeLog()

	if logger == nil {
		t.Fatal("Expected a logger even when logging is disabled")
	}
	// Must not panic or write anywhere visible
	logger.Info("discarded")
	log.Println("discarded too")
}

func TestSetupLogging_WritesStructuredFile(t *testing.T) {
	restoreStdLog(t)
	logPath := filepath.Join(t.TempDir(), "logs", "marquee.log")

	logger, closeLog, err := setupLogging(config.LogConfig{File: logPath, Level: "debug"})
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	logger.Debug("frame", "n", 1)
	log.Println("from stdlib")
	closeLog()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		t.Fatalf("Expected two log lines, got %q", data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", lines[0], err)
	}
	if !strings.Contains(lines[0], "frame") {
		t.Errorf("Expected message in first entry, got %q", lines[0])
	}
	if !strings.Contains(string(data), "from stdlib") {
		t.Error("Expected stdlib log to be redirected into the file")
	}
}

func TestSetupLogging_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Warn should pass at warn level, got %q", out)
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	restoreStdLog(t)
	logDir := t.TempDir()
	logPath := filepath.Join(logDir, "marquee.log")

	// Write just over 10MB
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	_, closeLog, err := setupLogging(config.LogConfig{File: logPath, Level: "info"})
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	defer closeLog()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != "marquee.log" && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_SmallFileAppends(t *testing.T) {
	restoreStdLog(t)
	logPath := filepath.Join(t.TempDir(), "marquee.log")
	os.WriteFile(logPath, []byte("previous\n"), 0o644)

	_, closeLog, err := setupLogging(config.LogConfig{File: logPath, Level: "info"})
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	log.Println("next")
	closeLog()

	data, _ := os.ReadFile(logPath)
	if !strings.HasPrefix(string(data), "previous\n") {
		t.Errorf("Expected existing content kept, got %q", data)
	}
}

func TestRotatedName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	tests := []struct {
		path string
		want string
	}{
		{"/var/log/marquee.log", "/var/log/marquee_20240305_140709.log"},
		{"debug", "debug_20240305_140709.log"},
	}
	for _, tt := range tests {
		if got := rotatedName(tt.path, now); got != tt.want {
			t.Errorf("rotatedName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
