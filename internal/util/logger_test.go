package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger("debug", logFile)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("ingest done")
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "INFO | ") || !strings.Contains(string(data), "ingest done") {
		t.Fatalf("unexpected log content: %q", string(data))
	}
}
