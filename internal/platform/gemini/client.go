package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// Client invokes Gemini models. Models listed as search models are called
// with Google Search grounding enabled.
type Client struct {
	log          *logger.Logger
	client       *genai.Client
	searchModels map[string]bool
}

type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty uses the default.
	BaseURL      string
	SearchModels []string
}

func ConfigFromEnv(searchModels ...string) Config {
	return Config{
		APIKey:       envutil.String("GEMINI_API_KEY", ""),
		BaseURL:      envutil.String("GEMINI_BASE_URL", ""),
		SearchModels: searchModels,
	}
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	search := make(map[string]bool, len(cfg.SearchModels))
	for _, m := range cfg.SearchModels {
		search[m] = true
	}
	return &Client{log: log.With("client", "Gemini"), client: client, searchModels: search}, nil
}

var errEmptyResponse = errors.New("gemini returned no text")

func (c *Client) Invoke(ctx context.Context, prompt, model string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if c.searchModels[model] {
		cfg = &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		}
	}
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
