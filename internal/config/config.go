package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shakedco/deploycheck/internal/verify"
)

// Processes declares the expected background services and how to reach
// the process manager.
type Processes struct {
	Expected []string `yaml:"expected"`
	PM2Bin   string   `yaml:"pm2_bin"`
}

// Config is the deployment-verification configuration. It is supplied by
// the deployment being verified; the harness treats it as opaque input.
type Config struct {
	LogDir       string               `yaml:"log_dir"`
	ArtifactsDir string               `yaml:"artifacts_dir"`
	ServeAddr    string               `yaml:"serve_addr"`
	SlackWebhook string               `yaml:"slack_webhook"`
	Tracker      *verify.ContentCheck `yaml:"tracker"`
	Processes    Processes            `yaml:"processes"`
	Endpoints    []verify.Endpoint    `yaml:"endpoints"`
}

// Load reads the YAML config, applies defaults and env overrides, and
// validates the declared endpoints.
func Load(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.ArtifactsDir == "" {
		c.ArtifactsDir = "artifacts"
	}
	if c.ServeAddr == "" {
		c.ServeAddr = "127.0.0.1:8090"
	}
	if c.Tracker != nil && c.Tracker.Name == "" {
		c.Tracker.Name = "Tracker Content"
	}
}

// Env overrides cover the operational knobs so deployment automation can
// retarget a checked-in config file without editing it.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("ARTIFACTS_DIR"); v != "" {
		c.ArtifactsDir = v
	}
	if v := os.Getenv("SERVE_ADDR"); v != "" {
		c.ServeAddr = v
	}
	if v := os.Getenv("SLACK_WEBHOOK"); v != "" {
		c.SlackWebhook = v
	}
	if v := os.Getenv("PM2_BIN"); v != "" {
		c.Processes.PM2Bin = v
	}
}

func (c *Config) validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("config declares no endpoints")
	}
	for i, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoint %d has no name", i)
		}
		if ep.URL == "" {
			return fmt.Errorf("endpoint %q has no url", ep.Name)
		}
	}
	if c.Tracker != nil && c.Tracker.URL == "" {
		return fmt.Errorf("tracker check has no url")
	}
	return nil
}
