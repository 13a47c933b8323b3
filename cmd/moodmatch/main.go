package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/anthropic"
	"github.com/MikeSquared-Agency/moodmatch/internal/api"
	"github.com/MikeSquared-Agency/moodmatch/internal/auth"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/jikan"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/omdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/tmdb"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog/tvmaze"
	"github.com/MikeSquared-Agency/moodmatch/internal/config"
	"github.com/MikeSquared-Agency/moodmatch/internal/events"
	"github.com/MikeSquared-Agency/moodmatch/internal/gemini"
	"github.com/MikeSquared-Agency/moodmatch/internal/hermes"
	"github.com/MikeSquared-Agency/moodmatch/internal/recommend"
	"github.com/MikeSquared-Agency/moodmatch/internal/refinement"
	"github.com/MikeSquared-Agency/moodmatch/internal/session"
	"github.com/MikeSquared-Agency/moodmatch/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("moodmatch starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM for prompt analysis. Without one every search runs unfiltered.
	llm := newCompleter(ctx, cfg)
	az := analyzer.New(llm, slog.Default())

	// Catalogs
	rnd := catalog.NewRandomizer()
	deps := recommend.Deps{
		Analyzer: az,
		TVMaze:   tvmaze.NewClient(),
		Anime:    jikan.NewClient(rnd),
		Enricher: omdb.NewClient(cfg.OMDBAPIKey),
	}
	catalogs := []string{"jikan", "tvmaze"}
	if cfg.TMDBAPIKey != "" {
		tm := tmdb.NewClient(cfg.TMDBAPIKey)
		deps.Movies = tm
		deps.Shows = tm
		catalogs = append(catalogs, "tmdb")
	} else {
		slog.Warn("TMDB_API_KEY not set; movie and TV searches will fail")
	}
	if cfg.OMDBAPIKey != "" {
		catalogs = append(catalogs, "omdb")
	}

	policy, err := recommend.ParseOrderingPolicy(cfg.OrderingPolicy)
	if err != nil {
		slog.Error("invalid ORDERING_POLICY", "error", err)
		os.Exit(1)
	}
	svc := recommend.NewService(deps, recommend.Options{
		Limit:    cfg.ResultLimit,
		PoolSize: cfg.DetailPoolSize,
		MaxPage:  cfg.MaxRandomPage,
		Policy:   policy,
		Rand:     rnd,
	}, slog.Default())

	sessions, err := session.New(cfg.SessionCacheSize)
	if err != nil {
		slog.Error("failed to create session store", "error", err)
		os.Exit(1)
	}

	// Event sinks are optional; moodmatch works without either.
	var sinks events.Multi
	var stats api.StatsSource

	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		sinks = append(sinks, hermesClient)
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, db)
		stats = db
		slog.Info("database connected")
	}

	var recorder *events.Recorder
	if len(sinks) > 0 {
		recorder = events.NewRecorder(sinks, slog.Default())
	}

	// HTTP API
	srv := api.NewServer(api.Options{
		Port:               cfg.Port,
		SearchTimeout:      cfg.SearchTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, api.Deps{
		Recommender: svc,
		Sessions:    sessions,
		Refinements: refinement.NewMapper(),
		Auth:        auth.NewJWTChecker(cfg.AuthJWTSecret),
		Events:      recorder,
		Stats:       stats,
		Logger:      slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if hermesClient != nil {
		provider := "none"
		if llm != nil {
			provider = llm.Name()
		}
		if err := hermesClient.Register(hermes.Registration{
			Port:        cfg.Port,
			LLMProvider: provider,
			Catalogs:    catalogs,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("moodmatch ready", "port", cfg.Port, "catalogs", catalogs)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	recorder.Wait()
	cancel()
	slog.Info("moodmatch stopped")
}

// newCompleter picks the configured LLM backend, or nil when none has a key.
func newCompleter(ctx context.Context, cfg config.Config) analyzer.Completer {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Warn("GEMINI_API_KEY not set; prompt analysis disabled")
			return nil
		}
		g, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.Options{})
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		slog.Info("gemini client ready", "model", cfg.GeminiModel)
		return g
	default:
		if cfg.AnthropicAPIKey == "" {
			slog.Warn("ANTHROPIC_API_KEY not set; prompt analysis disabled")
			return nil
		}
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
		return analyzer.Anthropic(anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
