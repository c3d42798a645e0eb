package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"swiftsell/internal/config"
	"swiftsell/internal/logging"
)

func TestLoggingOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.DebugMode = true
	cfg.Logging.Level = "debug"
	cfg.Logging.Categories = map[string]bool{"gen": false}

	opts := loggingOptions(cfg)
	if !opts.DebugMode {
		t.Error("config debug_mode not carried into logger options")
	}
	if opts.Level != "debug" {
		t.Errorf("level = %q, want debug", opts.Level)
	}
	if opts.Categories["gen"] {
		t.Error("category filter not carried into logger options")
	}
}

func TestLoggingOptionsFlagEnables(t *testing.T) {
	debugLogs = true
	defer func() { debugLogs = false }()

	opts := loggingOptions(config.Default())
	if !opts.DebugMode {
		t.Error("--debug flag did not enable debug mode")
	}
}

func TestConfigDrivenDebugLineWritten(t *testing.T) {
	defer logging.CloseAll()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Logging.DebugMode = true
	cfg.Logging.Level = "debug"

	if err := logging.Initialize(cfg.DataDir, loggingOptions(cfg)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	logging.WorkflowDebug("token rotated during review")

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("logs directory missing: %v", err)
	}
	for _, e := range entries {
		if !strings.Contains(e.Name(), "workflow") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if !strings.Contains(string(data), "token rotated during review") {
			t.Errorf("debug line missing from %s", e.Name())
		}
		return
	}
	t.Fatal("no workflow log file written")
}
