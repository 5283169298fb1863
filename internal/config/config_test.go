package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.CDPUrl != "http://localhost:9222" {
		t.Errorf("cdp url = %s", cfg.CDPUrl)
	}
	if cfg.StabilizationTimeSec != 3 || cfg.LCPWaitTimeSec != 3 || cfg.LoadTimeoutSec != 30 {
		t.Errorf("timing defaults = %d/%d/%d", cfg.StabilizationTimeSec, cfg.LCPWaitTimeSec, cfg.LoadTimeoutSec)
	}
	if cfg.Thresholds.FCP.ExcellentMs != 1800 || cfg.Thresholds.FCP.GoodMs != 3000 {
		t.Errorf("fcp thresholds = %+v", cfg.Thresholds.FCP)
	}
	if cfg.Thresholds.LCP.ExcellentMs != 2500 || cfg.Thresholds.LCP.GoodMs != 4000 {
		t.Errorf("lcp thresholds = %+v", cfg.Thresholds.LCP)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perftest.yaml")
	data := `
cdp_url: http://127.0.0.1:9223
stabilization_time_sec: 5
thresholds:
  fcp:
    excellent_ms: 1000
    good_ms: 2000
headers:
  - name: X-Canary
    value: "1"
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CDPUrl != "http://127.0.0.1:9223" {
		t.Errorf("cdp url = %s", cfg.CDPUrl)
	}
	if cfg.StabilizationTimeSec != 5 {
		t.Errorf("stabilization = %d, want 5", cfg.StabilizationTimeSec)
	}
	if cfg.Thresholds.FCP.ExcellentMs != 1000 {
		t.Errorf("fcp excellent = %v, want override 1000", cfg.Thresholds.FCP.ExcellentMs)
	}
	// Untouched sections keep their defaults.
	if cfg.Thresholds.LCP.ExcellentMs != 2500 {
		t.Errorf("lcp excellent = %v, want default 2500", cfg.Thresholds.LCP.ExcellentMs)
	}
	if cfg.LoadTimeoutSec != 30 {
		t.Errorf("load timeout = %d, want default 30", cfg.LoadTimeoutSec)
	}
	if len(cfg.Headers) != 1 || cfg.Headers[0].Name != "X-Canary" {
		t.Errorf("headers = %+v", cfg.Headers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s", cfg.Log.Level)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perftest.yaml")
	data := `
stabilization_time_sec: -2
max_slow_resources: 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StabilizationTimeSec != 3 {
		t.Errorf("stabilization = %d, want default 3", cfg.StabilizationTimeSec)
	}
	if cfg.MaxSlowResources != 5 {
		t.Errorf("max slow resources = %d, want default 5", cfg.MaxSlowResources)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
