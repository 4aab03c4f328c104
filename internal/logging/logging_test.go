package logging

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestComponentTagsEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	Component("resolver", zap.New(core)).Info("row matched")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "resolver" {
		t.Errorf("component = %v, want resolver", got)
	}
}

func TestComponentFallsBackToGlobalLogger(t *testing.T) {
	if Component("engine", nil) == nil {
		t.Fatal("expected a logger")
	}
}

func TestInitializeWritesToFile(t *testing.T) {
	defer InitializeDefault()

	path := filepath.Join(t.TempDir(), "dpe.log")
	cfg := Config{Level: "not-a-level", Format: "json", Output: path}
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("an unknown level must fall back to warn")
	}
	if !Logger.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled")
	}
}

func TestLevelHelpersUseGlobalLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core)

	Info("tables loaded")
	Warn("dwelling not loaded", zap.String("source", "absent.yaml"))
	Error("dwelling not computed")

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("entry %d level = %s, want %s", i, e.Level, want[i])
		}
	}
	if entries[1].ContextMap()["source"] != "absent.yaml" {
		t.Error("fields must be forwarded")
	}
}
