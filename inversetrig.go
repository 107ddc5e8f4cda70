// Package inversetrig assembles the inverse trigonometry lesson: it turns a
// loaded configuration into a running server with its session backend,
// metrics and tracing.
//
//	cfg, err := config.Load(config.Find("."))
//	if err != nil {
//	    return err
//	}
//	app, err := inversetrig.New(ctx, cfg, inversetrig.NewLogger(os.Stderr, cfg.Log))
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
package inversetrig

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/lessonkit/inversetrig/internal/config"
	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/middleware"
	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/server"
	"github.com/lessonkit/inversetrig/pkg/session"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// Version is set at build time.
var Version = "dev"

// App is a configured lesson server.
type App struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *middleware.Metrics
	server  *server.Server
}

// New opens the configured session backend and builds the server.
// A nil logger uses slog.Default().
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := OpenSessionStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger}
	opts := []server.Option{
		server.WithSnapshots(session.NewSnapshots(backend, cfg.SessionTTL())),
		server.WithLogger(logger.With("component", "server")),
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, server.WithMiddleware(
			middleware.Tracing(middleware.WithTracerName(cfg.Tracing.TracerName)),
		))
	}
	if cfg.Metrics.Enabled {
		app.metrics = middleware.NewMetrics(middleware.WithNamespace(cfg.Metrics.Namespace))
		opts = append(opts, server.WithMetrics(app.metrics))
	}

	app.server = server.New(&server.Config{
		Address:           cfg.Server.Address,
		CookieSecure:      cfg.Server.CookieSecure,
		HeartbeatInterval: cfg.HeartbeatInterval(),
		ShutdownTimeout:   cfg.ShutdownTimeout(),
	}, opts...)
	return app, nil
}

// OpenSessionStore opens the snapshot backend named by cfg.Backend.
func OpenSessionStore(ctx context.Context, cfg config.SessionConfig) (session.SessionStore, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendRedis:
		st, err := session.DialRedis(ctx, cfg.RedisURL, session.WithRedisPrefix(cfg.RedisPrefix))
		if err != nil {
			return nil, lerrors.New("L030").WithDetail("redis: " + err.Error()).Wrap(err)
		}
		return st, nil
	case config.BackendBolt:
		st, err := session.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, lerrors.New("L030").WithDetail(cfg.BoltPath + ": " + err.Error()).Wrap(err)
		}
		return st, nil
	default:
		return nil, lerrors.New("L041").WithDetail("unknown session backend " + cfg.Backend)
	}
}

// Config returns the app configuration.
func (a *App) Config() *config.Config { return a.config }

// Server returns the underlying server.
func (a *App) Server() *server.Server { return a.server }

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (a *App) Metrics() *middleware.Metrics { return a.metrics }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("lesson server starting",
		"address", a.config.Server.Address,
		"backend", a.config.Session.Backend,
		"metrics", a.config.Metrics.Enabled,
		"tracing", a.config.Tracing.Enabled,
	)
	return a.server.ListenAndServe(ctx)
}

// NewLogger builds the process logger from the log settings.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewPage builds a standalone lesson page, outside any live session, with
// the given variables written through the store. Values may be numbers or
// numeric strings, as parsed from the command line.
func NewPage(values map[string]any) (*page.Page, error) {
	st := store.New(store.LessonSchema())

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := st.SetAny(name, values[name]); err != nil {
			return nil, err
		}
	}

	return page.Lesson(widget.Env{Store: st, Document: widget.NewDocument()})
}

// ParseAssignments parses name=value pairs into a NewPage value map.
func ParseAssignments(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, lerrors.New("L002").
				WithDetail(pair).
				WithSuggestion("Use name=value, for example sineValue=0.5.")
		}
		values[name] = strings.TrimSpace(value)
	}
	return values, nil
}
