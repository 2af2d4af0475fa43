package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupOldLogsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"tripmitra-2026-01-01T00-00-00.log",
		"tripmitra-2026-01-02T00-00-00.log",
		"tripmitra-2026-01-03T00-00-00.log",
		"unrelated.log",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := cleanupOldLogs(dir, 2); err != nil {
		t.Fatalf("cleanupOldLogs failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
	for _, name := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should still exist: %v", name, err)
		}
	}
}

func TestNewLoggerWithLogDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Environment: "prod", LogDir: dir, LogMaxFiles: 3}

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if closer == nil {
		t.Fatal("expected a closer for the log file")
	}
	defer closer.Close()

	logger.Info("hello")

	files, _ := filepath.Glob(filepath.Join(dir, "tripmitra-*.log"))
	if len(files) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(files))
	}
}
