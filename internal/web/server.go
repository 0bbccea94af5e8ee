// Package web provides the HTTP server and handlers for the build-your-day web UI.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/itinerary"
	"github.com/evcraddock/build-your-day/internal/logging"
	"github.com/evcraddock/build-your-day/internal/metrics"
	"github.com/evcraddock/build-your-day/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// failureMessage is the only error text users ever see.
const failureMessage = "That didn't go quite as planned! Please try again."

// Config holds the server's collaborators and HTTP settings.
type Config struct {
	Data     *dataset.Store
	Sessions *session.Store
	Images   *asset.Resolver
	Metrics  *metrics.Metrics

	// Rand picks routes. Nil uses the global math/rand/v2 source.
	Rand itinerary.Rand

	CORSOrigins []string
	RateLimit   float64
	RateBurst   int

	// TrustProxy takes the client IP from X-Forwarded-For.
	TrustProxy bool
}

// Server is the web UI HTTP server.
type Server struct {
	data      *dataset.Store
	sessions  *session.Store
	images    *asset.Resolver
	metrics   *metrics.Metrics
	rng       itinerary.Rand
	limiter   *rateLimiter
	templates *template.Template
	router    *mux.Router
	handler   http.Handler
}

// NewServer creates a web server from the given config.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Data == nil || cfg.Sessions == nil {
		return nil, errors.New("web server needs a dataset store and a session store")
	}

	funcMap := template.FuncMap{
		"imageURL": tmplImageURL,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		data:      cfg.Data,
		sessions:  cfg.Sessions,
		images:    cfg.Images,
		metrics:   cfg.Metrics,
		rng:       cfg.Rand,
		limiter:   newRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy),
		templates: tmpl,
		router:    mux.NewRouter(),
	}
	if s.images == nil {
		s.images = asset.NewResolver("images")
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.rng == nil {
		s.rng = itinerary.GlobalRand{}
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	r := s.router
	r.Use(s.metrics.Middleware)
	r.Use(s.limiter.Middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	r.HandleFunc("/images/{file}", s.handleImage).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/itinerary", s.apiGetItinerary).Methods(http.MethodGet)
	api.HandleFunc("/generate", s.apiGenerate).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slot}/{direction:next|prev}", s.apiNavigate).Methods(http.MethodPost)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/slots/{slot}/{direction:next|prev}", s.handleNavigate).Methods(http.MethodPost)

	var h http.Handler = r
	if len(cfg.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowCredentials(),
		)(h)
	}
	s.handler = logging.RequestLogger(h)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when
// ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go s.limiter.Run(ctx, time.Minute, 3*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web UI", "url", fmt.Sprintf("http://localhost:%d", port))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	slog.Info("server shutdown complete")
	return nil
}

// failureKind labels an error for logs and metrics.
func failureKind(err error) string {
	var loadErr *dataset.DataLoadError
	var resErr *itinerary.ResolutionError
	switch {
	case errors.As(err, &loadErr):
		return "data_load"
	case errors.As(err, &resErr):
		return "resolution"
	case errors.Is(err, itinerary.ErrNoRoutes):
		return "no_routes"
	default:
		return "internal"
	}
}

// fail records a failed request. The caller shows failureMessage.
func (s *Server) fail(r *http.Request, action string, err error) {
	kind := failureKind(err)
	s.metrics.Failed(kind)
	slog.ErrorContext(r.Context(), "itinerary failed", "action", action, "kind", kind, "error", err)
}

// Template helper functions

func tmplImageURL(file string) string {
	return "/images/" + url.PathEscape(file)
}
