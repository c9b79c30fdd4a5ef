package app

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/aura-backend/internal/data/db"
	"github.com/yungbote/aura-backend/internal/observability"
	"github.com/yungbote/aura-backend/internal/platform/envutil"
	"github.com/yungbote/aura-backend/internal/platform/logger"
	"github.com/yungbote/aura-backend/internal/platform/openai"
	"github.com/yungbote/aura-backend/internal/realtime/bus"
	"github.com/yungbote/aura-backend/internal/services"
)

const serviceName = "aura-backend"

type Config struct {
	Port        string
	LogMode     string
	AutoMigrate bool

	DB db.Config

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	OpenAI openai.Config

	ArxivURL           string
	SemanticScholarURL string
	SemanticScholarKey string
	SemanticScholarRPS float64
	SearchTimeout      time.Duration
	MaxPapersPerQuery  int

	Redis bus.RedisConfig

	Otel observability.OtelConfig

	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

func logModeFromEnv() string {
	return envutil.String("LOG_MODE", "development")
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8000"),
		LogMode:     logModeFromEnv(),
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),
		DB: db.Config{
			URL:          envutil.String("DATABASE_URL", ""),
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "aura"),
			SSLMode:      envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("DB_MAX_IDLE_CONNS", 5),
			LogLevel:     envutil.String("DB_LOG_LEVEL", "warn"),
		},
		SessionSecret: envutil.String("SESSION_SECRET", ""),
		SessionTTL:    time.Duration(envutil.Int("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		SecureCookies: envutil.Bool("SESSION_SECURE_COOKIE", false),
		OpenAI: openai.Config{
			APIKey:     envutil.String("OPENAI_API_KEY", ""),
			BaseURL:    envutil.String("OPENAI_BASE_URL", ""),
			Model:      envutil.String("OPENAI_MODEL", ""),
			EmbedModel: envutil.String("OPENAI_EMBED_MODEL", ""),
			Timeout:    envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 60*time.Second),
			MaxRetries: envutil.Int("OPENAI_MAX_RETRIES", 0),
		},
		ArxivURL:           envutil.String("ARXIV_API_URL", ""),
		SemanticScholarURL: envutil.String("SEMANTIC_SCHOLAR_API_URL", ""),
		SemanticScholarKey: envutil.String("SEMANTIC_SCHOLAR_API_KEY", ""),
		SemanticScholarRPS: envutil.Float("SEMANTIC_SCHOLAR_RPS", 1),
		SearchTimeout:      envutil.Seconds("SEARCH_TIMEOUT_SECONDS", 30*time.Second),
		MaxPapersPerQuery:  envutil.Int("MAX_PAPERS_PER_QUERY", services.MaxResultsCap),
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		},
		AllowedOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", nil),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
	}
	if raw := strings.TrimSpace(envutil.String("OPENAI_TEMPERATURE", "")); raw != "" {
		t := envutil.Float("OPENAI_TEMPERATURE", 0.2)
		cfg.OpenAI.Temperature = &t
	}
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set; using a random secret, sessions will not survive a restart")
		cfg.SessionSecret = uuid.NewString()
	}
	return cfg
}
