package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deploycheck.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ParsesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
tracker:
  url: http://localhost:3000
  marker: "My Tasks"
processes:
  expected: [tracker-web, tracker-api, tracker-worker]
endpoints:
  - name: web
    url: http://localhost:3000
    timeout_ms: 5000
    primary: true
  - name: api
    url: http://localhost:3001/health
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogDir != "logs" || cfg.ArtifactsDir != "artifacts" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.ServeAddr != "127.0.0.1:8090" {
		t.Fatalf("serve addr default wrong: %q", cfg.ServeAddr)
	}
	if cfg.Tracker == nil || cfg.Tracker.Name != "Tracker Content" {
		t.Fatalf("tracker name default wrong: %+v", cfg.Tracker)
	}
	if len(cfg.Processes.Expected) != 3 {
		t.Fatalf("expected processes wrong: %+v", cfg.Processes)
	}
	if len(cfg.Endpoints) != 2 || !cfg.Endpoints[0].Primary || cfg.Endpoints[1].Name != "api" {
		t.Fatalf("endpoints wrong: %+v", cfg.Endpoints)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_DIR", "/tmp/dc-logs")
	t.Setenv("SLACK_WEBHOOK", "https://hooks.example/T1")
	t.Setenv("PM2_BIN", "/usr/local/bin/pm2")

	path := writeConfig(t, `
endpoints:
  - name: api
    url: http://localhost:3001/health
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogDir != "/tmp/dc-logs" {
		t.Fatalf("LOG_DIR override lost: %q", cfg.LogDir)
	}
	if cfg.SlackWebhook != "https://hooks.example/T1" {
		t.Fatalf("SLACK_WEBHOOK override lost: %q", cfg.SlackWebhook)
	}
	if cfg.Processes.PM2Bin != "/usr/local/bin/pm2" {
		t.Fatalf("PM2_BIN override lost: %q", cfg.Processes.PM2Bin)
	}
}

func TestLoad_RejectsMissingEndpoints(t *testing.T) {
	path := writeConfig(t, `log_dir: logs`)
	if _, err := Load(path); err == nil {
		t.Fatalf("want error for config without endpoints")
	}
}

func TestLoad_RejectsEndpointWithoutURL(t *testing.T) {
	path := writeConfig(t, `
endpoints:
  - name: api
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("want error for endpoint without url")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("want error for missing file")
	}
}
