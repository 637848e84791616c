package app

import (
	"strings"
	"time"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	LogMode         string
	ServiceName     string
	Environment     string
	ShutdownTimeout time.Duration

	JWTSecretKey string

	GeneratorProvider   string
	GeneratorConfigPath string

	SearchTimeout        time.Duration
	MaterialsConcurrency int
	MaterialsCacheTTL    time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "palearn"),
		Environment:     envutil.String("APP_ENV", "development"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),

		GeneratorProvider:   strings.ToLower(envutil.String("GENERATOR_PROVIDER", "openai")),
		GeneratorConfigPath: envutil.String("GENERATOR_CONFIG", ""),

		SearchTimeout:        envutil.Duration("SEARCH_TIMEOUT", 10*time.Second),
		MaterialsConcurrency: envutil.Int("MATERIALS_CONCURRENCY", 4),
		MaterialsCacheTTL:    envutil.Duration("MATERIALS_CACHE_TTL", 6*time.Hour),
	}
	if log != nil && cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; trusting X-User-ID header for identity")
	}
	return cfg
}
