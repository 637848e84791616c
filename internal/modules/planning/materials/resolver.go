// Package materials finds one video and one article for a study topic,
// falling back to generic search links so the result is never empty.
package materials

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/google"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// Searcher is a specialized search API. A nil Searcher means no credential.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]google.Hit, error)
}

// Cache stores resolved materials by topic. Misses and errors are equivalent.
type Cache interface {
	Get(ctx context.Context, topic string) (Result, bool)
	Set(ctx context.Context, topic string, res Result)
}

type Result struct {
	Related []domain.Material `json:"related_materials"`
	Review  []domain.Material `json:"review_materials"`
}

type Config struct {
	Timeout     time.Duration
	Concurrency int
}

type Resolver struct {
	log     *logger.Logger
	video   Searcher
	article Searcher
	cache   Cache
	cfg     Config
}

func NewResolver(log *logger.Logger, video, article Searcher, cache Cache, cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Resolver{log: log.With("service", "MaterialResolver"), video: video, article: article, cache: cache, cfg: cfg}
}

// Resolve returns one video and one article for topic. Related and Review
// hold the same entries in separate slices.
func (r *Resolver) Resolve(ctx context.Context, topic string) Result {
	topic = strings.TrimSpace(topic)
	if r.cache != nil {
		if res, ok := r.cache.Get(ctx, topic); ok && len(res.Related) > 0 && len(res.Review) > 0 {
			return res
		}
	}

	var video, article domain.Material
	var videoOK, articleOK bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		video, videoOK = r.lookupVideo(gctx, topic)
		return nil
	})
	g.Go(func() error {
		article, articleOK = r.lookupArticle(gctx, topic)
		return nil
	})
	_ = g.Wait()

	res := Result{
		Related: []domain.Material{video, article},
		Review:  []domain.Material{video, article},
	}
	// A failed lookup may recover on the next call, so its fallback is not kept.
	if r.cache != nil && videoOK && articleOK && ctx.Err() == nil {
		r.cache.Set(ctx, topic, res)
	}
	return res
}

// lookupVideo reports false when the search API failed and the result is
// only a stand-in.
func (r *Resolver) lookupVideo(ctx context.Context, topic string) (domain.Material, bool) {
	hit, out := r.first(ctx, "youtube", r.video, topic+" 강의 튜토리얼")
	if out == outcomeHit {
		return domain.Material{
			Title:       hit.Title,
			Type:        domain.MaterialVideo,
			URL:         hit.URL,
			Description: fmt.Sprintf("'%s' 관련 유튜브 강의", topic),
		}, true
	}
	return FallbackVideo(topic), out != outcomeFailed
}

func (r *Resolver) lookupArticle(ctx context.Context, topic string) (domain.Material, bool) {
	hit, out := r.first(ctx, "custom_search", r.article, topic+" 블로그 튜토리얼")
	if out == outcomeHit {
		return domain.Material{
			Title:       hit.Title,
			Type:        domain.MaterialArticle,
			URL:         hit.URL,
			Description: clip(hit.Snippet, 100),
		}, true
	}
	return FallbackArticle(topic), out != outcomeFailed
}

type outcome string

const (
	outcomeHit     outcome = "ok"
	outcomeSkipped outcome = "skipped"
	outcomeEmpty   outcome = "empty"
	outcomeFailed  outcome = "error"
)

// first returns the first usable hit from s and how the lookup went.
func (r *Resolver) first(ctx context.Context, source string, s Searcher, query string) (hit google.Hit, out outcome) {
	defer func() { observability.Current().IncMaterialLookup(source, string(out)) }()
	if s == nil {
		return google.Hit{}, outcomeSkipped
	}
	tctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	hits, err := s.Search(tctx, query, 1)
	if err != nil {
		r.log.Warn("material search failed, using search link", "source", source, "error", err)
		return google.Hit{}, outcomeFailed
	}
	for _, h := range hits {
		if !IsPlaceholder(h.URL) {
			return h, outcomeHit
		}
	}
	return google.Hit{}, outcomeEmpty
}

func FallbackVideo(topic string) domain.Material {
	return domain.Material{
		Title:       topic + " 강의 영상",
		Type:        domain.MaterialVideo,
		URL:         "https://www.youtube.com/results?search_query=" + url.QueryEscape(topic+" 강의"),
		Description: "유튜브에서 관련 강의를 검색합니다",
	}
}

func FallbackArticle(topic string) domain.Material {
	return domain.Material{
		Title:       topic + " 학습 블로그",
		Type:        domain.MaterialArticle,
		URL:         "https://www.google.com/search?q=" + url.QueryEscape(topic+" 블로그 강의"),
		Description: "구글에서 관련 블로그를 검색합니다",
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
