package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lessonkit/inversetrig/pkg/middleware"
	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/render"
	"github.com/lessonkit/inversetrig/pkg/session"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// PageFactory builds a fresh page for one visitor.
type PageFactory func(env widget.Env) (*page.Page, error)

// Option configures a Server.
type Option func(*Server)

// WithPageFactory sets the page served to visitors. Default: page.Lesson.
func WithPageFactory(f PageFactory) Option {
	return func(s *Server) { s.newPage = f }
}

// WithSnapshots sets where visitor variables are persisted.
// Default: an in-memory store with a 24 hour TTL.
func WithSnapshots(snaps *session.Snapshots) Option {
	return func(s *Server) { s.snapshots = snaps }
}

// WithMetrics enables Prometheus metrics and the /metrics route.
func WithMetrics(m *middleware.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithMiddleware appends event middleware. Metrics middleware is added
// automatically when WithMetrics is set.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Server) { s.middleware = append(s.middleware, mws...) }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// Server serves the lesson page and its live sessions.
type Server struct {
	config     *Config
	newPage    PageFactory
	snapshots  *session.Snapshots
	metrics    *middleware.Metrics
	middleware []middleware.Middleware
	logger     *slog.Logger
	renderer   *render.Renderer
	upgrader   websocket.Upgrader
	router     chi.Router

	mu         sync.Mutex
	live       map[*liveSession]struct{}
	wg         sync.WaitGroup
	httpServer *http.Server
}

// New creates a server. A nil config uses DefaultConfig.
func New(config *Config, opts ...Option) *Server {
	config = config.withDefaults()

	s := &Server{
		config:  config,
		newPage: page.Lesson,
		logger:  slog.Default().With("component", "server"),
		live:    make(map[*liveSession]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.snapshots == nil {
		s.snapshots = session.NewSnapshots(session.NewMemoryStore(), 24*time.Hour)
	}
	if s.metrics != nil {
		s.middleware = append(s.middleware, s.metrics.Middleware())
	}

	s.renderer = render.NewRenderer(render.RendererConfig{
		ClientScript:  config.AssetPrefix + "/client.js",
		WebSocketPath: config.WebSocketPath,
	})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     config.CheckOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/lesson.md", s.handleMarkdown)
	r.Get("/healthz", s.handleHealth)
	r.Get(s.config.WebSocketPath, s.handleWebSocket)
	r.Get(s.config.AssetPrefix+"/client.js", serveAsset("client.js", "text/javascript; charset=utf-8"))
	r.Get(s.config.AssetPrefix+"/lesson.css", serveAsset("lesson.css", "text/css; charset=utf-8"))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// Config returns the effective configuration.
func (s *Server) Config() *Config { return s.config }

// Handler returns the server's HTTP handler for mounting in other routers.
func (s *Server) Handler() http.Handler { return s.router }

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger { return s.logger }

// LiveSessions returns the number of open live sessions.
func (s *Server) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, closes live sessions (persisting
// their variables) and waits for them to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	live := make([]*liveSession, 0, len(s.live))
	for ls := range s.live {
		live = append(live, ls)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	for _, ls := range live {
		ls.close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return errors.Join(err, ctx.Err())
	}

	return errors.Join(err, s.snapshots.Close())
}

func (s *Server) track(ls *liveSession) {
	s.mu.Lock()
	s.live[ls] = struct{}{}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
}

func (s *Server) untrack(ls *liveSession) {
	s.mu.Lock()
	delete(s.live, ls)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
}
