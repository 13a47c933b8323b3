package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/moodmatch/internal/auth"
	"github.com/MikeSquared-Agency/moodmatch/internal/events"
	"github.com/MikeSquared-Agency/moodmatch/internal/recommend"
	"github.com/MikeSquared-Agency/moodmatch/internal/refinement"
	"github.com/MikeSquared-Agency/moodmatch/internal/session"
	"github.com/MikeSquared-Agency/moodmatch/internal/store"
)

const maxBodyBytes = 1 << 20

// Recommender runs one search.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// StatsSource reports recent search totals for the status endpoint.
type StatsSource interface {
	SearchCounts(ctx context.Context, since time.Time) ([]store.StatusCount, error)
}

type Options struct {
	Port               int
	SearchTimeout      time.Duration
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// Deps are the server's collaborators. Auth, Events and Stats may be nil.
type Deps struct {
	Recommender Recommender
	Sessions    *session.Store
	Refinements *refinement.Mapper
	Auth        auth.Checker
	Events      *events.Recorder
	Stats       StatsSource
	Logger      *slog.Logger
}

type Server struct {
	router   *chi.Mux
	opts     Options
	deps     Deps
	logger   *slog.Logger
	validate *validator.Validate
	http     *http.Server
}

func NewServer(opts Options, deps Deps) *Server {
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = 25 * time.Second
	}
	if deps.Refinements == nil {
		deps.Refinements = refinement.NewMapper()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router:   router,
		opts:     opts,
		deps:     deps,
		logger:   logger,
		validate: validator.New(),
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/moodmatch/status", s.status)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/api/v1/refinements/{mediaType}", s.refinements)

	router.Group(func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
		}
		r.Post("/api/v1/search", s.search)
		r.Post("/api/v1/feedback", s.feedback)
		r.Post("/api/v1/save", s.save)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("API server starting", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"service": "moodmatch",
		"status":  "ok",
	}
	if s.deps.Sessions != nil {
		body["sessions"] = s.deps.Sessions.Len()
	}
	if s.deps.Stats != nil {
		counts, err := s.deps.Stats.SearchCounts(r.Context(), time.Now().UTC().Add(-24*time.Hour))
		if err != nil {
			s.logger.Warn("failed to read search counts", "error", err)
		} else {
			body["searches_24h"] = counts
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
