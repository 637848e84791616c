package observability

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveGenerator("search_primary", "rejected", 1500*time.Millisecond)
	m.ObserveGenerator("search_primary", "rejected", time.Second)
	m.IncMaterialLookup("youtube", "fallback")
	m.IncPlan("scheduler")
	m.ObserveAPI("POST", "/plan/apply_recommendation", 200, 80*time.Millisecond)

	if got := m.GeneratorCalls("search_primary", "rejected"); got != 2 {
		t.Fatalf("generator calls = %v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`palearn_generator_calls_total{tier="search_primary",outcome="rejected"} 2`,
		`palearn_generator_latency_seconds_bucket{tier="search_primary",le="2"} 2`,
		`palearn_generator_latency_seconds_count{tier="search_primary"} 2`,
		`palearn_material_lookups_total{source="youtube",outcome="fallback"} 1`,
		`palearn_plans_total{path="scheduler"} 1`,
		`palearn_http_requests_total{method="POST",route="/plan/apply_recommendation",status="200"} 1`,
		`palearn_http_inflight_requests 0`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveGenerator("normal", "failed", time.Second)
	m.IncMaterialLookup("cse", "ok")
	m.IncPlan("generator")
	m.APIInflightInc()
	m.APIInflightDec()
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := renderLabels([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("renderLabels = %s", got)
	}
	if got := addLe("", "0.5"); got != `{le="0.5"}` {
		t.Fatalf("addLe = %s", got)
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test", "k", "v", "dangling")
	defer span.End()
	if ctx == nil {
		t.Fatalf("nil context")
	}
}

func TestFinishSpanWithoutProvider(t *testing.T) {
	_, span := StartSpan(context.Background(), "test")
	FinishSpan(span, "failed", context.DeadlineExceeded)
	if span.IsRecording() {
		t.Fatalf("span still recording after finish")
	}
}
