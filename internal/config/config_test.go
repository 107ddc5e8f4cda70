package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lessonkit/inversetrig/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if cfg.Session.Backend != BackendMemory {
		t.Errorf("Session.Backend = %q", cfg.Session.Backend)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Errorf("SessionTTL() = %v", cfg.SessionTTL())
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "lesson.yaml", `
server:
  address: ":9000"
session:
  backend: bolt
  ttl: 2h
  boltPath: /tmp/s.db
metrics:
  enabled: true
publish:
  bucket: lessons
  pathStyle: true
`)
	jsonPath := writeFile(t, dir, "lesson.json", `{
  "server": {"address": ":9000"},
  "session": {"backend": "bolt", "ttl": "2h", "boltPath": "/tmp/s.db"},
  "metrics": {"enabled": true},
  "publish": {"bucket": "lessons", "pathStyle": true}
}`)

	fromYAML, err := LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	fromJSON, err := LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("json: %v", err)
	}

	if diff := cmp.Diff(fromYAML, fromJSON, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("yaml and json differ (-yaml +json):\n%s", diff)
	}
	if fromYAML.Server.Address != ":9000" || fromYAML.SessionTTL() != 2*time.Hour || !fromYAML.Publish.PathStyle {
		t.Errorf("unexpected config %+v", fromYAML)
	}
	if fromYAML.Server.HeartbeatInterval != "30s" {
		t.Error("defaults not applied to loaded config")
	}
	if fromYAML.Path() != yamlPath {
		t.Errorf("Path() = %q", fromYAML.Path())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	if !stderrors.Is(err, errors.New("L040")) {
		t.Errorf("missing file: expected L040, got %v", err)
	}

	bad := writeFile(t, dir, "lesson.json", `{"server": `)
	if _, err := LoadFile(bad); !stderrors.Is(err, errors.New("L041")) {
		t.Errorf("bad json: expected L041, got %v", err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if got := Find(dir); got != "" {
		t.Errorf("Find(empty) = %q", got)
	}

	writeFile(t, dir, "lesson.json", "{}")
	yml := writeFile(t, dir, "lesson.yml", "{}")
	if got := Find(dir); got != yml {
		t.Errorf("Find = %q, want %q", got, yml)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LESSON_ADDRESS", ":7000")
	t.Setenv("LESSON_SESSION_BACKEND", "redis")
	t.Setenv("LESSON_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LESSON_METRICS_ENABLED", "true")
	t.Setenv("LESSON_LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != ":7000" || cfg.Session.Backend != BackendRedis ||
		cfg.Session.RedisURL != "redis://cache:6379/1" || !cfg.Metrics.Enabled || cfg.Log.Format != "json" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lesson.yaml", "server:\n  address: \":9000\"\n")
	t.Setenv("LESSON_ADDRESS", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Address != ":7000" {
		t.Errorf("Address = %q, want the environment value", cfg.Server.Address)
	}
}

func TestApplyEnvInvalidBool(t *testing.T) {
	t.Setenv("LESSON_TRACING_ENABLED", "maybe")
	if _, err := Load(""); !stderrors.Is(err, errors.New("L041")) {
		t.Errorf("expected L041, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Session.Backend = "etcd" }},
		{"redis without url", func(c *Config) { c.Session.Backend = BackendRedis }},
		{"bad ttl", func(c *Config) { c.Session.TTL = "soon" }},
		{"negative heartbeat", func(c *Config) { c.Server.HeartbeatInterval = "-1s" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !stderrors.Is(err, errors.New("L041")) {
				t.Errorf("expected L041, got %v", err)
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := New()
	cfg.Server.ShutdownTimeout = "nope"
	if cfg.ShutdownTimeout() != 30*time.Second {
		t.Errorf("ShutdownTimeout() = %v", cfg.ShutdownTimeout())
	}
	if cfg.HeartbeatInterval() != 30*time.Second {
		t.Errorf("HeartbeatInterval() = %v", cfg.HeartbeatInterval())
	}
}
