package materials

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/platform/google"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSearcher struct {
	hits  []google.Hit
	err   error
	delay time.Duration
	calls atomic.Int32
	mu    sync.Mutex
	seen  []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]google.Hit, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, query)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.hits, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string]Result
}

func (c *memCache) Get(_ context.Context, topic string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[topic]
	return r, ok
}

func (c *memCache) Set(_ context.Context, topic string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]Result{}
	}
	c.data[topic] = res
}

func TestResolveWithoutCredentialsUsesSearchLinks(t *testing.T) {
	r := NewResolver(logger.Nop(), nil, nil, nil, Config{})
	res := r.Resolve(context.Background(), "Python 기초")

	if len(res.Related) != 2 || len(res.Review) != 2 {
		t.Fatalf("want 2 related and 2 review, got %+v", res)
	}
	v, a := res.Related[0], res.Related[1]
	if v.Type != domain.MaterialVideo || v.Title != "Python 기초 강의 영상" ||
		v.URL != "https://www.youtube.com/results?search_query=Python+%EA%B8%B0%EC%B4%88+%EA%B0%95%EC%9D%98" {
		t.Fatalf("video fallback = %+v", v)
	}
	if a.Type != domain.MaterialArticle || a.Title != "Python 기초 학습 블로그" || !strings.HasPrefix(a.URL, "https://www.google.com/search?q=") {
		t.Fatalf("article fallback = %+v", a)
	}
	res.Review[0].Title = "mutated"
	if res.Related[0].Title == "mutated" {
		t.Fatalf("review must not alias related")
	}
}

func TestResolveUsesSearchHits(t *testing.T) {
	video := &fakeSearcher{hits: []google.Hit{{Title: "Go 강의", URL: "https://www.youtube.com/watch?v=x"}}}
	article := &fakeSearcher{hits: []google.Hit{{Title: "Go 글", URL: "https://velog.io/@a/go", Snippet: strings.Repeat("가", 150)}}}
	r := NewResolver(logger.Nop(), video, article, nil, Config{})

	res := r.Resolve(context.Background(), "Go")
	if res.Related[0].URL != "https://www.youtube.com/watch?v=x" || res.Related[0].Description != "'Go' 관련 유튜브 강의" {
		t.Fatalf("video = %+v", res.Related[0])
	}
	if got := []rune(res.Related[1].Description); len(got) != 100 {
		t.Fatalf("snippet should clip to 100 runes, got %d", len(got))
	}
	if video.seen[0] != "Go 강의 튜토리얼" || article.seen[0] != "Go 블로그 튜토리얼" {
		t.Fatalf("queries = %v %v", video.seen, article.seen)
	}
}

func TestResolveFallsBackPerSource(t *testing.T) {
	video := &fakeSearcher{err: errors.New("quota")}
	article := &fakeSearcher{hits: []google.Hit{{Title: "fake", URL: "https://example.com/x"}}}
	r := NewResolver(logger.Nop(), video, article, nil, Config{})

	res := r.Resolve(context.Background(), "SQL")
	if res.Related[0].Title != "SQL 강의 영상" || res.Related[1].Title != "SQL 학습 블로그" {
		t.Fatalf("expected both fallbacks, got %+v", res.Related)
	}
}

func TestResolveTimeoutFallsBack(t *testing.T) {
	slow := &fakeSearcher{delay: time.Second, hits: []google.Hit{{Title: "late", URL: "https://a.b/c"}}}
	r := NewResolver(logger.Nop(), slow, nil, nil, Config{Timeout: 20 * time.Millisecond})
	res := r.Resolve(context.Background(), "K8s")
	if res.Related[0].Title != "K8s 강의 영상" {
		t.Fatalf("expected fallback after timeout, got %+v", res.Related[0])
	}
}

func TestResolveCaches(t *testing.T) {
	video := &fakeSearcher{hits: []google.Hit{{Title: "v", URL: "https://youtu.be/1"}}}
	cache := &memCache{}
	r := NewResolver(logger.Nop(), video, nil, cache, Config{})
	r.Resolve(context.Background(), "Rust")
	r.Resolve(context.Background(), "Rust")
	if n := video.calls.Load(); n != 1 {
		t.Fatalf("second resolve should hit cache, searcher calls = %d", n)
	}
}

func TestResolveDoesNotCacheAfterSearchError(t *testing.T) {
	video := &fakeSearcher{err: errors.New("503 transient")}
	cache := &memCache{}
	r := NewResolver(logger.Nop(), video, nil, cache, Config{})

	first := r.Resolve(context.Background(), "Go")
	if first.Related[0].Title != "Go 강의 영상" {
		t.Fatalf("expected search link while the API is down, got %+v", first.Related[0])
	}
	if _, ok := cache.Get(context.Background(), "Go"); ok {
		t.Fatalf("fallback after a search error must not be cached")
	}

	video.err = nil
	video.hits = []google.Hit{{Title: "Go 강의", URL: "https://www.youtube.com/watch?v=go"}}
	second := r.Resolve(context.Background(), "Go")
	if second.Related[0].URL != "https://www.youtube.com/watch?v=go" {
		t.Fatalf("recovered API should be used, got %+v", second.Related[0])
	}
	if n := video.calls.Load(); n != 2 {
		t.Fatalf("searcher calls = %d, want 2", n)
	}
	if _, ok := cache.Get(context.Background(), "Go"); !ok {
		t.Fatalf("result with an API hit should be cached")
	}
}

func TestResolveCachesEmptyAnswer(t *testing.T) {
	video := &fakeSearcher{}
	cache := &memCache{}
	r := NewResolver(logger.Nop(), video, nil, cache, Config{})
	r.Resolve(context.Background(), "Zig")
	r.Resolve(context.Background(), "Zig")
	if n := video.calls.Load(); n != 1 {
		t.Fatalf("an empty answer is final, searcher calls = %d", n)
	}
}

func TestIsPlaceholder(t *testing.T) {
	cases := map[string]bool{
		"":                                 true,
		"   ":                              true,
		"https://example.com/a":            true,
		"https://실제링크.com":                 true,
		"ftp://files.org/x":                true,
		"not a url":                        true,
		"https://www.youtube.com/watch?v=1": false,
		"http://blog.naver.com/p/2":        false,
	}
	for in, want := range cases {
		if got := IsPlaceholder(in); got != want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnrichFillsOnlyMissing(t *testing.T) {
	video := &fakeSearcher{hits: []google.Hit{{Title: "v", URL: "https://youtu.be/1"}}}
	r := NewResolver(logger.Nop(), video, nil, nil, Config{Concurrency: 2})
	kept := domain.Material{Title: "keep", Type: domain.MaterialArticle, URL: "https://go.dev/doc"}
	plan := &domain.Plan{DailySchedule: []domain.DaySchedule{
		{Date: "2024-01-01", Tasks: []domain.Task{
			{ID: "1", Title: "변수", RelatedMaterials: []domain.Material{{URL: "https://example.com"}}},
			{ID: "2", Title: "변수", RelatedMaterials: []domain.Material{kept}, ReviewMaterials: []domain.Material{kept}},
		}},
		{Date: "2024-01-02", Tasks: []domain.Task{{ID: "3", Title: "함수"}}},
	}}

	r.Enrich(context.Background(), plan, func(_ *domain.DaySchedule, task *domain.Task) string {
		return "Go " + task.Title
	})

	t1 := plan.DailySchedule[0].Tasks[0]
	if len(t1.RelatedMaterials) != 2 || t1.RelatedMaterials[0].URL != "https://youtu.be/1" {
		t.Fatalf("placeholder should be replaced: %+v", t1.RelatedMaterials)
	}
	t2 := plan.DailySchedule[0].Tasks[1]
	if len(t2.RelatedMaterials) != 1 || t2.RelatedMaterials[0].Title != "keep" {
		t.Fatalf("valid materials should survive: %+v", t2.RelatedMaterials)
	}
	if n := video.calls.Load(); n != 2 {
		t.Fatalf("distinct topics should resolve once each, calls = %d", n)
	}
	for _, day := range plan.DailySchedule {
		for _, task := range day.Tasks {
			if len(task.RelatedMaterials) == 0 || len(task.ReviewMaterials) == 0 {
				t.Fatalf("task %s left without materials", task.ID)
			}
		}
	}
}
