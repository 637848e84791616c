// Package google wraps the YouTube Data API and the Custom Search JSON API
// behind a single query-to-hits call.
package google

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type Hit struct {
	Title   string
	URL     string
	Snippet string
}

type YouTube struct {
	log *logger.Logger
	svc *youtube.Service
}

// NewYouTube needs an API key; extra options are for endpoint overrides in tests.
func NewYouTube(ctx context.Context, log *logger.Logger, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
	}
	svc, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &YouTube{log: log.With("client", "YouTube"), svc: svc}, nil
}

// Search returns medium-length Korean-relevant videos for query.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	resp, err := y.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(limit)).
		RelevanceLanguage("ko").
		VideoDuration("medium").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}
	hits := make([]Hit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		hits = append(hits, Hit{
			Title:   item.Snippet.Title,
			URL:     "https://www.youtube.com/watch?v=" + item.Id.VideoId,
			Snippet: item.Snippet.Description,
		})
	}
	return hits, nil
}

type CustomSearch struct {
	log *logger.Logger
	svc *customsearch.Service
	cx  string
}

func NewCustomSearch(ctx context.Context, log *logger.Logger, apiKey, cx string, opts ...option.ClientOption) (*CustomSearch, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY or GOOGLE_CSE_ID")
	}
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("customsearch service: %w", err)
	}
	return &CustomSearch{log: log.With("client", "CustomSearch"), svc: svc, cx: cx}, nil
}

// Search returns Korean-language web results for query.
func (s *CustomSearch) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	resp, err := s.svc.Cse.List().
		Cx(s.cx).
		Q(query).
		Num(int64(limit)).
		Lr("lang_ko").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}
	hits := make([]Hit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			continue
		}
		hits = append(hits, Hit{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return hits, nil
}
