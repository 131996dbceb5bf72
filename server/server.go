// Package server exposes the document wizard over HTTP and serves the
// embedded browser UI.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"doc_wizard/catalog"
	"doc_wizard/wizard"
)

//go:embed web/dist
var embeddedStatic embed.FS

// Options configures a Server.
type Options struct {
	Catalog         *catalog.Catalog
	DefaultLanguage string
	Logger          *zap.Logger
}

type Server struct {
	gen      wizard.Generator
	catalog  *catalog.Catalog
	language string
	logger   *zap.Logger
	validate *validator.Validate
	store    *sessionStore
	staticFS http.Handler

	// runs outlive the request that started them; ctx is cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc
	runs   sync.WaitGroup

	httpServer *http.Server
}

func New(gen wizard.Generator, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		gen:      gen,
		catalog:  opts.Catalog,
		language: opts.DefaultLanguage,
		logger:   opts.Logger,
		validate: newValidator(),
		store:    newStore(),
		staticFS: http.FileServer(http.FS(sub)),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/categories/{category}/templates", s.handleTemplates)

		r.Post("/sessions", s.handleSessionCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleSessionGet)
			r.Delete("/", s.handleSessionDelete)
			r.Post("/category", s.handleSelectCategory)
			r.Post("/template", s.handleSelectTemplate)
			r.Post("/format", s.handleSetFormat)
			r.Post("/back", s.handleBack)
			r.Post("/generate", s.handleGenerate)
			r.Post("/analyze", s.handleAnalyze)
			r.Post("/highlight", s.handleHighlight)
			r.Post("/reset", s.handleReset)
			r.Get("/preview", s.handlePreview)
			r.Get("/download", s.handleDownload)
			r.Get("/documents", s.handleDocuments)
			r.Get("/documents/{doc}", s.handleDocument)
			r.Get("/dashboard", s.handleDashboard)
		})
	})
	r.Handle("/*", s.staticHandler())
	return r
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops accepting requests, cancels outstanding model calls and waits
// for them to settle.
func (s *Server) Close(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.cancel()
	s.runs.Wait()
	return err
}

// spawn runs fn in the background with the server lifetime context.
func (s *Server) spawn(session, op string, fn func(context.Context) error) {
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		err := fn(s.ctx)
		switch {
		case err == nil:
			s.logger.Debug("run finished", zap.String("session", session), zap.String("op", op))
		case errors.Is(err, wizard.ErrSuperseded):
			s.logger.Debug("run superseded", zap.String("session", session), zap.String("op", op))
		default:
			s.logger.Warn("run failed", zap.String("session", session), zap.String("op", op), zap.Error(err))
		}
	}()
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
