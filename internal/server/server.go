// Package server is the HTTP front end: it keeps one session per visitor
// cookie, renders the page and runs submissions in the background.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/renderers/vanilla"
	"github.com/goliatone/go-solverform/pkg/session"
)

// CookieName is the session cookie.
const CookieName = "solverform_session"

// DefaultMaxUploadBytes bounds a submitted form.
const DefaultMaxUploadBytes = 10 << 20

// Option configures a Server.
type Option func(*Server)

// WithStore replaces the session store.
func WithStore(store *session.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRenderer replaces the page renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithRenderOptions sets the form model, translator, theme and info HTML
// passed to the renderer.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Server) {
		s.renderOptions = opts
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxUploadBytes bounds request bodies.
func WithMaxUploadBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxUploadBytes = limit
		}
	}
}

// WithBaseContext sets the context background solves run under. Cancelling
// it aborts in-flight solver calls.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// Server serves the solver page.
type Server struct {
	solver         session.Solver
	store          *session.Store
	renderer       render.Renderer
	renderOptions  render.RenderOptions
	logger         *zap.Logger
	maxUploadBytes int64
	secureCookies  bool
	baseCtx        context.Context

	inflight sync.WaitGroup
}

// New builds a server that submits through sv.
func New(sv session.Solver, options ...Option) (*Server, error) {
	if sv == nil {
		return nil, errors.New("server: solver is required")
	}
	s := &Server{
		solver:         sv,
		logger:         zap.NewNop(),
		maxUploadBytes: DefaultMaxUploadBytes,
		baseCtx:        context.Background(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.renderOptions.Translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderOptions.Translator = catalog
	}
	if s.store == nil {
		s.store = session.NewStore(session.DefaultTTL, nil)
	}
	if s.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithTranslator(s.renderOptions.Translator))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	return s, nil
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /solve", s.handleSolve)
	mux.HandleFunc("POST /mode", s.handleMode)
	mux.HandleFunc("POST /language", s.handleLanguage)
	mux.HandleFunc("POST /info", s.handleInfo)
	mux.HandleFunc("POST /info/hide", s.handleInfoHide)
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("GET /result.png", s.handleImage)
	mux.HandleFunc("GET /api/session", s.handleSessionJSON)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// Wait blocks until background solves finish or ctx is done.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
