package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/render"
	"github.com/lessonkit/inversetrig/pkg/session"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// visitorID returns the session ID from the request cookie, issuing a new
// one when it is missing or malformed.
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.config.CookieName); err == nil && session.ValidID(c.Value) {
		return c.Value
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// openPage builds a page for the visitor id with its saved variables.
// An unavailable or corrupt snapshot falls back to the defaults.
func (s *Server) openPage(ctx context.Context, id string, logger *slog.Logger) (*page.Page, error) {
	st := store.New(s.config.Schema)

	values, err := s.snapshots.Load(ctx, id)
	if err != nil {
		logger.Warn("snapshot load failed", "error", err)
	} else if err := st.Restore(values); err != nil {
		logger.Warn("snapshot restore failed", "error", err)
	}

	return s.newPage(widget.Env{Store: st, Document: widget.NewDocument()})
}

func (s *Server) requestLogger(r *http.Request, id string) *slog.Logger {
	return s.logger.With("session_id", id, "request_id", chimw.GetReqID(r.Context()))
}

// handlePage server-renders the lesson with the visitor's variables.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := s.visitorID(w, r)
	logger := s.requestLogger(r, id)

	p, err := s.openPage(r.Context(), id, logger)
	if err != nil {
		logger.Error("page build failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer p.Close()

	var buf bytes.Buffer
	err = s.renderer.RenderPage(&buf, render.PageData{
		Body:        p.Render(),
		Title:       p.Title(),
		Description: p.Description(),
		StyleSheets: []string{s.config.AssetPrefix + "/lesson.css"},
		SessionID:   id,
	})
	if err != nil {
		logger.Error("render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// handleMarkdown exports the lesson as Markdown with the visitor's values.
func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	id := s.visitorID(w, r)
	logger := s.requestLogger(r, id)

	p, err := s.openPage(r.Context(), id, logger)
	if err != nil {
		logger.Error("page build failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer p.Close()

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, p.Markdown())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.LiveSessions(),
	})
}
