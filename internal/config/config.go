// Package config loads the ops-console configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

// Config is the top-level configuration document.
type Config struct {
	Console    ConsoleConfig    `yaml:"console"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Storage    StorageConfig    `yaml:"storage"`
	Graph      GraphConfig      `yaml:"graph"`
	Advisor    AdvisorConfig    `yaml:"advisor"`
}

// ConsoleConfig controls the refresh behaviour of the dashboard.
type ConsoleConfig struct {
	RefreshInterval Duration `yaml:"refresh_interval"`
	TimeRange       string   `yaml:"time_range"`
	AutoRefresh     *bool    `yaml:"auto_refresh"`
}

// Duration decodes "30s"/"5m" style strings, which yaml.v3 does not do
// for time.Duration natively.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ThresholdsConfig carries the warning/critical cut-offs per metric.
type ThresholdsConfig struct {
	Load          ThresholdPair `yaml:"load"`
	CPU           ThresholdPair `yaml:"cpu"`
	Memory        ThresholdPair `yaml:"memory"`
	Disk          ThresholdPair `yaml:"disk"`
	ResponseMS    ThresholdPair `yaml:"response_ms"`
	SLAAlertHours float64       `yaml:"sla_alert_hours"`
}

type ThresholdPair struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// StorageConfig controls DuckDB persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// GraphConfig controls the Neo4j connection.
type GraphConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// AdvisorConfig controls the Gemini-backed Q&A engine.
type AdvisorConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Console.RefreshInterval == 0 {
		c.Console.RefreshInterval = Duration(time.Minute)
	}
	if c.Console.TimeRange == "" {
		c.Console.TimeRange = string(datasource.Range7D)
	}
	if c.Console.AutoRefresh == nil {
		on := true
		c.Console.AutoRefresh = &on
	}

	def := engine.DefaultConfig()
	fillPair(&c.Thresholds.Load, def.Load)
	fillPair(&c.Thresholds.CPU, def.CPU)
	fillPair(&c.Thresholds.Memory, def.Memory)
	fillPair(&c.Thresholds.Disk, def.Disk)
	fillPair(&c.Thresholds.ResponseMS, def.ResponseMS)
	if c.Thresholds.SLAAlertHours == 0 {
		c.Thresholds.SLAAlertHours = def.SLAAlert.Hours()
	}

	if c.Graph.URI == "" {
		c.Graph.URI = "bolt://localhost:7687"
	}
	if c.Graph.User == "" {
		c.Graph.User = "neo4j"
	}
	if c.Graph.Database == "" {
		c.Graph.Database = "neo4j"
	}

	if c.Advisor.APIKey == "" {
		c.Advisor.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "pro"
	}
}

func fillPair(p *ThresholdPair, def engine.Thresholds) {
	if p.Warning == 0 {
		p.Warning = def.Warning
	}
	if p.Critical == 0 {
		p.Critical = def.Critical
	}
}

// Validate rejects configurations the dashboard cannot run with.
func (c *Config) Validate() error {
	if !engine.ValidInterval(time.Duration(c.Console.RefreshInterval)) {
		return fmt.Errorf("console.refresh_interval %v is not one of %v", time.Duration(c.Console.RefreshInterval), engine.Intervals)
	}
	if _, err := datasource.ParseTimeRange(c.Console.TimeRange); err != nil {
		return fmt.Errorf("console.time_range: %w", err)
	}
	for name, p := range map[string]ThresholdPair{
		"load":        c.Thresholds.Load,
		"cpu":         c.Thresholds.CPU,
		"memory":      c.Thresholds.Memory,
		"disk":        c.Thresholds.Disk,
		"response_ms": c.Thresholds.ResponseMS,
	} {
		if p.Warning > p.Critical {
			return fmt.Errorf("thresholds.%s: warning %v above critical %v", name, p.Warning, p.Critical)
		}
	}
	if c.Thresholds.SLAAlertHours <= 0 {
		return fmt.Errorf("thresholds.sla_alert_hours must be positive, got %v", c.Thresholds.SLAAlertHours)
	}
	return nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// EngineConfig converts the threshold section into evaluator settings.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Load:       engine.Thresholds{Warning: c.Thresholds.Load.Warning, Critical: c.Thresholds.Load.Critical},
		CPU:        engine.Thresholds{Warning: c.Thresholds.CPU.Warning, Critical: c.Thresholds.CPU.Critical},
		Memory:     engine.Thresholds{Warning: c.Thresholds.Memory.Warning, Critical: c.Thresholds.Memory.Critical},
		Disk:       engine.Thresholds{Warning: c.Thresholds.Disk.Warning, Critical: c.Thresholds.Disk.Critical},
		ResponseMS: engine.Thresholds{Warning: c.Thresholds.ResponseMS.Warning, Critical: c.Thresholds.ResponseMS.Critical},
		SLAAlert:   time.Duration(c.Thresholds.SLAAlertHours * float64(time.Hour)),
	}
}

// RefreshInterval returns the configured scheduler interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Console.RefreshInterval)
}

// TimeRange parses the configured aggregation window.
func (c *Config) TimeRange() datasource.TimeRange {
	tr, err := datasource.ParseTimeRange(c.Console.TimeRange)
	if err != nil {
		return datasource.Range7D
	}
	return tr
}
