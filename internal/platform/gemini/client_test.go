package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected error without key")
	}
}

func TestInvokeGroundsSearchModels(t *testing.T) {
	var sawTools []bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, hasTools := body["tools"]
		sawTools = append(sawTools, hasTools)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"id\": 1}"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, SearchModels: []string{"gemini-search"}})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	for _, model := range []string{"gemini-search", "gemini-plain"} {
		got, err := c.Invoke(context.Background(), "prompt", model)
		if err != nil || got != `{"id": 1}` {
			t.Fatalf("Invoke(%s) = %q, %v", model, got, err)
		}
	}
	if len(sawTools) != 2 || !sawTools[0] || sawTools[1] {
		t.Fatalf("tools presence = %v", sawTools)
	}
}
