package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reaper.Enabled {
		t.Error("reaper must default to disabled")
	}
	if cfg.Reaper.IntervalMinutes != 60 {
		t.Errorf("expected default interval 60, got %d", cfg.Reaper.IntervalMinutes)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("db_path: /tmp/agent.db\nverbose: true\nsession:\n  pending_tasks: 3\nreaper:\n  enabled: true\n  interval_minutes: 15\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/agent.db" || !cfg.Verbose {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Session.PendingTasks != 3 {
		t.Errorf("expected pending_tasks 3, got %d", cfg.Session.PendingTasks)
	}
	if !cfg.Reaper.Enabled || cfg.Reaper.IntervalMinutes != 15 {
		t.Errorf("unexpected reaper config: %+v", cfg.Reaper)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("db_path: [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveDBPathPrecedence(t *testing.T) {
	cfg := Config{DBPath: "/from/config.db"}

	if got := cfg.ResolveDBPath("/from/flag.db"); got != "/from/flag.db" {
		t.Errorf("flag should win, got %s", got)
	}

	t.Setenv(EnvDBPath, "/from/env.db")
	if got := cfg.ResolveDBPath(""); got != "/from/env.db" {
		t.Errorf("env should beat config, got %s", got)
	}

	t.Setenv(EnvDBPath, "")
	if got := cfg.ResolveDBPath(""); got != "/from/config.db" {
		t.Errorf("config should beat default, got %s", got)
	}

	empty := Config{}
	if got := empty.ResolveDBPath(""); filepath.Base(got) != "state.db" {
		t.Errorf("expected default state.db, got %s", got)
	}
}
