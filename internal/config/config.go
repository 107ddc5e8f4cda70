package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lessonkit/inversetrig/internal/errors"
)

const (
	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultSessionTTL is how long an idle visitor's variables are kept.
	DefaultSessionTTL = "24h"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LESSON_"
)

// FileNames are the configuration files Find looks for, in order.
var FileNames = []string{"lesson.yaml", "lesson.yml", "lesson.json"}

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
)

// Config represents the complete lesson server configuration.
type Config struct {
	// Server contains HTTP and WebSocket settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Session selects where visitor variables are persisted.
	Session SessionConfig `json:"session" yaml:"session"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Publish contains the S3 destination of static snapshots.
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// path stores the file the config was loaded from.
	path string
}

// ServerConfig contains HTTP and WebSocket settings.
type ServerConfig struct {
	// Address is the address to listen on.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool `json:"cookieSecure,omitempty" yaml:"cookieSecure,omitempty"`

	// HeartbeatInterval is the time between pings (e.g., "30s").
	HeartbeatInterval string `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "30s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// SessionConfig selects the snapshot backend.
type SessionConfig struct {
	// Backend is "memory", "redis" or "bolt".
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// TTL is how long an idle visitor's variables are kept (e.g., "24h").
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`

	// RedisURL is the redis:// URL of the Redis backend.
	RedisURL string `json:"redisURL,omitempty" yaml:"redisURL,omitempty"`

	// RedisPrefix prefixes every Redis key.
	RedisPrefix string `json:"redisPrefix,omitempty" yaml:"redisPrefix,omitempty"`

	// BoltPath is the database file of the bolt backend.
	BoltPath string `json:"boltPath,omitempty" yaml:"boltPath,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves /metrics and records event metrics.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace prefixes every metric name (default: "lesson").
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled starts a span for every event.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// TracerName names the tracer (default: "lesson").
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// PublishConfig contains the S3 destination of static snapshots.
type PublishConfig struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle bool   `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, or only the defaults when path is empty, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from path. The format follows the file
// extension: .json is JSON, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("L040").WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("L041").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.path = path
	cfg.applyDefaults()
	return cfg, nil
}

// Find returns the first configuration file present in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.HeartbeatInterval == "" {
		c.Server.HeartbeatInterval = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "30s"
	}

	if c.Session.Backend == "" {
		c.Session.Backend = BackendMemory
	}
	if c.Session.TTL == "" {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Session.RedisPrefix == "" {
		c.Session.RedisPrefix = "lesson:session:"
	}
	if c.Session.BoltPath == "" {
		c.Session.BoltPath = "lesson-sessions.db"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "lesson"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "lesson"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// envOverrides maps each LESSON_* variable to the field it sets.
func (c *Config) envOverrides() map[string]func(string) error {
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			*dst = b
			return nil
		}
	}

	return map[string]func(string) error{
		"ADDRESS":            str(&c.Server.Address),
		"COOKIE_SECURE":      boolean(&c.Server.CookieSecure),
		"SESSION_BACKEND":    str(&c.Session.Backend),
		"SESSION_TTL":        str(&c.Session.TTL),
		"REDIS_URL":          str(&c.Session.RedisURL),
		"BOLT_PATH":          str(&c.Session.BoltPath),
		"METRICS_ENABLED":    boolean(&c.Metrics.Enabled),
		"TRACING_ENABLED":    boolean(&c.Tracing.Enabled),
		"PUBLISH_BUCKET":     str(&c.Publish.Bucket),
		"PUBLISH_PREFIX":     str(&c.Publish.Prefix),
		"PUBLISH_REGION":     str(&c.Publish.Region),
		"PUBLISH_ENDPOINT":   str(&c.Publish.Endpoint),
		"PUBLISH_PATH_STYLE": boolean(&c.Publish.PathStyle),
		"LOG_LEVEL":          str(&c.Log.Level),
		"LOG_FORMAT":         str(&c.Log.Format),
	}
}

// ApplyEnv overrides fields from LESSON_* environment variables.
func (c *Config) ApplyEnv() error {
	for suffix, apply := range c.envOverrides() {
		v, ok := os.LookupEnv(EnvPrefix + suffix)
		if !ok {
			continue
		}
		if err := apply(v); err != nil {
			return errors.New("L041").
				WithDetail(EnvPrefix + suffix + "=" + v).
				Wrap(err)
		}
	}
	return nil
}

// Validate checks enumerations and durations.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendBolt:
	case BackendRedis:
		if c.Session.RedisURL == "" {
			return errors.New("L041").
				WithDetail("session.redisURL is required for the redis backend")
		}
	default:
		return errors.New("L041").
			WithDetail("unknown session backend " + strconv.Quote(c.Session.Backend)).
			WithSuggestion("Use memory, redis or bolt.")
	}

	for name, v := range map[string]string{
		"server.heartbeatInterval": c.Server.HeartbeatInterval,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
		"session.ttl":              c.Session.TTL,
	} {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return errors.New("L041").WithDetail(name + " must be a positive duration, got " + strconv.Quote(v))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("L041").WithDetail("unknown log level " + strconv.Quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("L041").WithDetail("unknown log format " + strconv.Quote(c.Log.Format))
	}
	return nil
}

// SessionTTL returns the parsed session TTL.
func (c *Config) SessionTTL() time.Duration {
	return mustDuration(c.Session.TTL, 24*time.Hour)
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return mustDuration(c.Server.HeartbeatInterval, 30*time.Second)
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, 30*time.Second)
}

// mustDuration parses v, falling back for configs that skipped Validate.
func mustDuration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
