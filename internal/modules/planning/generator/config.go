package generator

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
)

type Models struct {
	SearchPrimary  string `yaml:"search_primary"`
	SearchFallback string `yaml:"search_fallback"`
	Normal         string `yaml:"normal"`
}

type Config struct {
	Models      Models        `yaml:"models"`
	TierTimeout time.Duration `yaml:"tier_timeout"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var defaultModels = map[string]Models{
	ProviderOpenAI: {
		SearchPrimary:  "gpt-5-search-api",
		SearchFallback: "gpt-4o-search-preview",
		Normal:         "gpt-4o",
	},
	ProviderGemini: {
		SearchPrimary:  "gemini-2.5-pro",
		SearchFallback: "gemini-2.5-flash",
		Normal:         "gemini-2.5-flash",
	},
}

// DefaultConfig is the OpenAI tier set.
func DefaultConfig() Config { return DefaultConfigFor(ProviderOpenAI) }

// DefaultConfigFor picks tier models that exist on provider. Unknown
// providers get the OpenAI set.
func DefaultConfigFor(provider string) Config {
	models, ok := defaultModels[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		models = defaultModels[ProviderOpenAI]
	}
	return Config{Models: models, TierTimeout: 90 * time.Second}
}

// LoadConfig layers an optional YAML file over the provider's defaults, then
// environment variables over both. An empty path skips the file.
func LoadConfig(path, provider string) (Config, error) {
	cfg := DefaultConfigFor(provider)
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read generator config: %w", err)
		}
		var file Config
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return cfg, fmt.Errorf("parse generator config: %w", err)
		}
		cfg = merge(cfg, file)
	}
	cfg.Models.SearchPrimary = envutil.String("GENERATOR_MODEL_SEARCH_PRIMARY", cfg.Models.SearchPrimary)
	cfg.Models.SearchFallback = envutil.String("GENERATOR_MODEL_SEARCH_FALLBACK", cfg.Models.SearchFallback)
	cfg.Models.Normal = envutil.String("GENERATOR_MODEL_NORMAL", cfg.Models.Normal)
	cfg.TierTimeout = envutil.Duration("GENERATOR_TIER_TIMEOUT", cfg.TierTimeout)
	return cfg, nil
}

func merge(base, over Config) Config {
	if over.Models.SearchPrimary != "" {
		base.Models.SearchPrimary = over.Models.SearchPrimary
	}
	if over.Models.SearchFallback != "" {
		base.Models.SearchFallback = over.Models.SearchFallback
	}
	if over.Models.Normal != "" {
		base.Models.Normal = over.Models.Normal
	}
	if over.TierTimeout > 0 {
		base.TierTimeout = over.TierTimeout
	}
	return base
}
