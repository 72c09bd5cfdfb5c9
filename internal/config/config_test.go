package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "console: {}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RefreshInterval() != time.Minute {
		t.Errorf("refresh interval = %v, want 1m", cfg.RefreshInterval())
	}
	if cfg.Console.TimeRange != "7d" {
		t.Errorf("time range = %q, want 7d", cfg.Console.TimeRange)
	}
	if cfg.Console.AutoRefresh == nil || !*cfg.Console.AutoRefresh {
		t.Error("auto refresh should default to on")
	}
	if cfg.Thresholds.Load.Warning != 60 || cfg.Thresholds.Load.Critical != 80 {
		t.Errorf("load thresholds = %+v, want 60/80", cfg.Thresholds.Load)
	}
	if cfg.Thresholds.SLAAlertHours != 2 {
		t.Errorf("sla alert hours = %v, want 2", cfg.Thresholds.SLAAlertHours)
	}
	if cfg.Graph.URI != "bolt://localhost:7687" {
		t.Errorf("graph uri = %q", cfg.Graph.URI)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
console:
  refresh_interval: 30s
  time_range: 30d
  auto_refresh: false
thresholds:
  load:
    warning: 50
    critical: 75
  sla_alert_hours: 4
storage:
  enabled: true
  path: /tmp/ops.duckdb
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RefreshInterval() != 30*time.Second {
		t.Errorf("refresh interval = %v, want 30s", cfg.RefreshInterval())
	}
	if *cfg.Console.AutoRefresh {
		t.Error("auto refresh should stay off when set explicitly")
	}
	if cfg.TimeRange() != datasource.Range30D {
		t.Errorf("time range = %q, want 30d", cfg.TimeRange())
	}
	if cfg.Thresholds.Load.Critical != 75 {
		t.Errorf("load critical = %v, want 75", cfg.Thresholds.Load.Critical)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Path != "/tmp/ops.duckdb" {
		t.Errorf("storage = %+v", cfg.Storage)
	}

	ec := cfg.EngineConfig()
	if ec.SLAAlert != 4*time.Hour {
		t.Errorf("engine sla alert = %v, want 4h", ec.SLAAlert)
	}
	// Unset sections still fall back to defaults.
	if ec.Memory.Critical != 85 {
		t.Errorf("memory critical = %v, want 85", ec.Memory.Critical)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, "console:\n  refresh_interval: 42s\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported interval")
	}
}

func TestLoadRejectsBadTimeRange(t *testing.T) {
	path := writeConfig(t, "console:\n  time_range: 2w\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown time range")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	path := writeConfig(t, `
thresholds:
  cpu:
    warning: 90
    critical: 70
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for warning above critical")
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
