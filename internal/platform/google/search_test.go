package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"

	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

func fakeServer(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYouTubeSearch(t *testing.T) {
	srv := fakeServer(t, `{"items":[
		{"id":{"kind":"youtube#video","videoId":"abc123"},"snippet":{"title":"Go 채널 강의","description":"설명"}},
		{"id":{"kind":"youtube#channel"},"snippet":{"title":"skip"}}
	]}`, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Go 채널 강의 튜토리얼" || q.Get("type") != "video" || q.Get("relevanceLanguage") != "ko" || q.Get("videoDuration") != "medium" {
			t.Errorf("unexpected query: %v", q)
		}
	})
	yt, err := NewYouTube(context.Background(), logger.Nop(), "key", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewYouTube: %v", err)
	}
	hits, err := yt.Search(context.Background(), "Go 채널 강의 튜토리얼", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].URL != "https://www.youtube.com/watch?v=abc123" || hits[0].Title != "Go 채널 강의" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestCustomSearch(t *testing.T) {
	srv := fakeServer(t, `{"items":[{"title":"Go 블로그","link":"https://velog.io/@a/go","snippet":"요약"},{"title":"no link"}]}`, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("cx") != "cx-1" || q.Get("lr") != "lang_ko" || q.Get("num") != "1" {
			t.Errorf("unexpected query: %v", q)
		}
	})
	cs, err := NewCustomSearch(context.Background(), logger.Nop(), "key", "cx-1", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewCustomSearch: %v", err)
	}
	hits, err := cs.Search(context.Background(), "Go 블로그 튜토리얼", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].URL != "https://velog.io/@a/go" || hits[0].Snippet != "요약" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestSearchErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"quota"}}`, http.StatusForbidden)
	}))
	defer srv.Close()
	yt, _ := NewYouTube(context.Background(), logger.Nop(), "key", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if _, err := yt.Search(context.Background(), "q", 1); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestConstructorsRequireCredentials(t *testing.T) {
	if _, err := NewYouTube(context.Background(), logger.Nop(), ""); err == nil {
		t.Fatalf("youtube without key should fail")
	}
	if _, err := NewCustomSearch(context.Background(), logger.Nop(), "key", ""); err == nil {
		t.Fatalf("custom search without cx should fail")
	}
}
