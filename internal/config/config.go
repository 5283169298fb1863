package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/slopjam/perftest/pkg/model"
)

// Config is the tool configuration loaded from YAML.
type Config struct {
	CDPUrl string `yaml:"cdp_url"`

	StabilizationTimeSec int `yaml:"stabilization_time_sec"`
	LCPWaitTimeSec       int `yaml:"lcp_wait_time_sec"`
	LoadTimeoutSec       int `yaml:"load_timeout_sec"`
	WaitBetweenSec       int `yaml:"wait_between_sec"`
	MaxSlowResources     int `yaml:"max_slow_resources"`

	Headers    []model.Header   `yaml:"headers"`
	Thresholds model.Thresholds `yaml:"thresholds"`

	OutputDir string `yaml:"output_dir"`

	Log struct {
		Level  string   `yaml:"level"`
		Writer []string `yaml:"writer"`
		File   string   `yaml:"file"`
	} `yaml:"log"`

	Sqlite struct {
		Dsn    string `yaml:"dsn"`
		Prefix string `yaml:"prefix"`
	} `yaml:"sqlite"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	cfg := &Config{
		CDPUrl:               "http://localhost:9222",
		StabilizationTimeSec: 3,
		LCPWaitTimeSec:       3,
		LoadTimeoutSec:       30,
		WaitBetweenSec:       5,
		MaxSlowResources:     5,
		OutputDir:            ".",
		Thresholds: model.Thresholds{
			FCP: model.ThresholdBand{ExcellentMs: 1800, GoodMs: 3000},
			LCP: model.ThresholdBand{ExcellentMs: 2500, GoodMs: 4000},
		},
	}
	cfg.Log.Level = "info"
	cfg.Log.Writer = []string{"console"}
	cfg.Sqlite.Prefix = "perftest_"
	return cfg
}

// Load reads configuration from a YAML file merged over the defaults.
// With an empty path the default locations are searched; when none
// exists the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		for _, name := range []string{"perftest.yaml", "perftest.yml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize pushes out-of-range values back to the defaults.
func (c *Config) normalize() {
	def := NewConfig()
	if c.CDPUrl == "" {
		c.CDPUrl = def.CDPUrl
	}
	if c.StabilizationTimeSec <= 0 {
		c.StabilizationTimeSec = def.StabilizationTimeSec
	}
	if c.LCPWaitTimeSec <= 0 {
		c.LCPWaitTimeSec = def.LCPWaitTimeSec
	}
	if c.LoadTimeoutSec <= 0 {
		c.LoadTimeoutSec = def.LoadTimeoutSec
	}
	if c.WaitBetweenSec < 0 {
		c.WaitBetweenSec = def.WaitBetweenSec
	}
	if c.MaxSlowResources <= 0 {
		c.MaxSlowResources = def.MaxSlowResources
	}
	if c.Thresholds.FCP.ExcellentMs <= 0 || c.Thresholds.FCP.GoodMs <= 0 {
		c.Thresholds.FCP = def.Thresholds.FCP
	}
	if c.Thresholds.LCP.ExcellentMs <= 0 || c.Thresholds.LCP.GoodMs <= 0 {
		c.Thresholds.LCP = def.Thresholds.LCP
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if len(c.Log.Writer) == 0 {
		c.Log.Writer = def.Log.Writer
	}
}
