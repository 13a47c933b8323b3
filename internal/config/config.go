package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	LogLevel string

	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string

	TMDBAPIKey string
	OMDBAPIKey string

	NatsURL     string
	NatsToken   string
	DatabaseURL string

	AuthJWTSecret string

	OrderingPolicy     string
	ResultLimit        int
	DetailPoolSize     int
	MaxRandomPage      int
	SearchTimeout      time.Duration
	SessionCacheSize   int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     envInt("MOODMATCH_PORT", 8780),
		LogLevel: envStr("LOG_LEVEL", "info"),

		LLMProvider:     strings.ToLower(envStr("LLM_PROVIDER", "anthropic")),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("MOODMATCH_MODEL", "claude-sonnet-4-20250514"),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.5-flash"),

		TMDBAPIKey: envStr("TMDB_API_KEY", ""),
		OMDBAPIKey: envStr("OMDB_API_KEY", ""),

		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),

		AuthJWTSecret: envStr("AUTH_JWT_SECRET", ""),

		OrderingPolicy:     envStr("ORDERING_POLICY", "randomized"),
		ResultLimit:        envInt("RESULT_LIMIT", 6),
		DetailPoolSize:     envInt("DETAIL_POOL_SIZE", 10),
		MaxRandomPage:      envInt("MAX_RANDOM_PAGE", 5),
		SearchTimeout:      envDuration("SEARCH_TIMEOUT", 25*time.Second),
		SessionCacheSize:   envInt("SESSION_CACHE_SIZE", 10000),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
