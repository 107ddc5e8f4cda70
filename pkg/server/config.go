package server

import (
	"net/http"
	"time"

	"github.com/lessonkit/inversetrig/pkg/store"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// AssetPrefix is the path under which the client script and the
	// stylesheet are served. Default: "/_lesson".
	AssetPrefix string

	// WebSocketPath is the live endpoint. Default: AssetPrefix + "/ws".
	WebSocketPath string

	// CookieName names the visitor session cookie. Default: "lesson_session".
	CookieName string

	// CookieSecure sets the Secure attribute on the session cookie.
	CookieSecure bool

	// Schema declares the store variables of every visitor.
	// Default: store.LessonSchema().
	Schema *store.Schema

	// Timeouts

	// ReadTimeout is the maximum time to wait for a frame from the client.
	// Heartbeat pongs extend it. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HandshakeTimeout is the maximum time to wait for the Hello frame.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// PersistInterval is how often changed variables are saved while a
	// session is live. They are always saved when it ends.
	// Default: 5 seconds.
	PersistInterval time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: same-origin check of gorilla/websocket.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		AssetPrefix:       "/_lesson",
		WebSocketPath:     "/_lesson/ws",
		CookieName:        "lesson_session",
		Schema:            store.LessonSchema(),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		PersistInterval:   5 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
	}
}

// withDefaults fills every zero field from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		c = &Config{}
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.AssetPrefix == "" {
		out.AssetPrefix = defaults.AssetPrefix
	}
	if out.WebSocketPath == "" {
		out.WebSocketPath = out.AssetPrefix + "/ws"
	}
	if out.CookieName == "" {
		out.CookieName = defaults.CookieName
	}
	if out.Schema == nil {
		out.Schema = defaults.Schema
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HandshakeTimeout == 0 {
		out.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.PersistInterval == 0 {
		out.PersistInterval = defaults.PersistInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	return &out
}
