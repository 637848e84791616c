package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/yungbote/palearn-backend/internal/clients/redis"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/gemini"
	"github.com/yungbote/palearn-backend/internal/platform/google"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
	"github.com/yungbote/palearn-backend/internal/platform/openai"
)

// Clients holds the outbound dependencies. Every field may be nil; the
// pipeline degrades to its deterministic fallbacks without them.
type Clients struct {
	Invoker   generator.Invoker
	Video     materials.Searcher
	Article   materials.Searcher
	Redis     *goredis.Client
	Cache     materials.Cache
	StatusBus redisclient.StatusBus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, genCfg generator.Config, withRedis bool) Clients {
	log.Info("Wiring clients...")
	var out Clients

	out.Invoker = wireInvoker(ctx, log, cfg, genCfg)

	// Search adapters
	if key := envutil.String("YOUTUBE_API_KEY", ""); key != "" {
		yt, err := google.NewYouTube(ctx, log, key)
		if err != nil {
			log.Warn("youtube search disabled", "error", err)
		} else {
			out.Video = yt
		}
	}
	apiKey, cx := envutil.String("GOOGLE_API_KEY", ""), envutil.String("GOOGLE_CSE_ID", "")
	if apiKey != "" && cx != "" {
		cs, err := google.NewCustomSearch(ctx, log, apiKey, cx)
		if err != nil {
			log.Warn("custom search disabled", "error", err)
		} else {
			out.Article = cs
		}
	}

	// Redis
	if withRedis && envutil.String("REDIS_ADDR", "") != "" {
		rdb, err := redisclient.Connect(ctx)
		if err != nil {
			log.Warn("redis unavailable; running without cache and status bus", "error", err)
			return out
		}
		out.Redis = rdb
		out.Cache = redisclient.NewMaterialCache(log, rdb, cfg.MaterialsCacheTTL)
		bus, err := redisclient.NewStatusBus(log, rdb)
		if err != nil {
			log.Warn("status bus disabled", "error", err)
		} else {
			out.StatusBus = bus
		}
	}
	return out
}

// wireInvoker returns nil when the provider has no credentials, which leaves
// the chain unavailable.
func wireInvoker(ctx context.Context, log *logger.Logger, cfg Config, genCfg generator.Config) generator.Invoker {
	switch cfg.GeneratorProvider {
	case generator.ProviderGemini:
		c, err := gemini.NewClient(ctx, log, gemini.ConfigFromEnv(genCfg.Models.SearchPrimary, genCfg.Models.SearchFallback))
		if err != nil {
			log.Warn("generator disabled", "provider", "gemini", "error", err)
			return nil
		}
		return c
	default:
		c, err := openai.NewClient(log)
		if err != nil {
			log.Warn("generator disabled", "provider", "openai", "error", err)
			return nil
		}
		return c
	}
}

func (c Clients) Close(log *logger.Logger) {
	if c.StatusBus != nil {
		_ = c.StatusBus.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
}
