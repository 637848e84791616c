package observability

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSLOEvaluatorComputesBurn(t *testing.T) {
	var alerts atomic.Int32
	var lastSLO atomic.Value
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		lastSLO.Store(payload["slo"])
		alerts.Add(1)
	}))
	defer hook.Close()

	t.Setenv("SLO_ALERT_WEBHOOK_URL", hook.URL)
	t.Setenv("SLO_ALERT_OWNER", "planning")
	t.Setenv("SLO_WINDOW", "1h")
	t.Setenv("SLO_EVAL_INTERVAL", "1m")

	m := New()
	e := newSLOEvaluator(m, nil)
	for i := 0; i < 8; i++ {
		m.ObserveAPI("GET", "/plans", 200, time.Millisecond)
	}
	m.ObserveAPI("GET", "/plans", 500, time.Millisecond)
	m.ObserveAPI("GET", "/plans", 502, time.Millisecond)
	m.ObserveGenerator("normal", "accepted", time.Second)
	m.IncMaterialLookup("youtube", "skipped")

	e.evaluate(context.Background())

	if got := m.sloCompliance.Value(sloAPIAvailability, "1h"); got != 0.8 {
		t.Fatalf("api compliance = %v", got)
	}
	if got := m.sloCompliance.Value(sloGeneratorSuccess, "1h"); got != 1 {
		t.Fatalf("generator compliance = %v", got)
	}
	if got := m.sloCompliance.Value(sloMaterialLookup, "1h"); got != 1 {
		t.Fatalf("skipped lookups must not count, compliance = %v", got)
	}
	if alerts.Load() != 1 || lastSLO.Load() != sloAPIAvailability {
		t.Fatalf("expected one api alert, got %d (%v)", alerts.Load(), lastSLO.Load())
	}

	// Same severity inside the min interval is suppressed.
	e.evaluate(context.Background())
	if alerts.Load() != 1 {
		t.Fatalf("alert not rate limited: %d", alerts.Load())
	}
}

func TestFormatWindowLabel(t *testing.T) {
	cases := map[time.Duration]string{
		48 * time.Hour:   "2d",
		36 * time.Hour:   "36h",
		time.Hour:        "1h",
		30 * time.Minute: "30m",
	}
	for in, want := range cases {
		if got := formatWindowLabel(in); got != want {
			t.Fatalf("formatWindowLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestObjectiveWindowForgetsOldTicks(t *testing.T) {
	o := &objective{name: "x", target: 0.9, good: newRing(2), bad: newRing(2)}
	o.sample(0, 5)
	o.sample(10, 5)
	if st := o.status(); math.Abs(st.SLI-2.0/3.0) > 1e-9 {
		t.Fatalf("sli over two ticks = %v", st.SLI)
	}
	// The third tick pushes the first (all bad) out of the window.
	o.sample(20, 5)
	if st := o.status(); st.SLI != 1 || st.Burn != 0 || st.Budget != 1 {
		t.Fatalf("status after window slid = %+v", st)
	}
}

func TestAlertSeverity(t *testing.T) {
	a := alertSettings{burnWarn: 2, burnCrit: 10}
	for burn, want := range map[float64]string{1: "", 2: "warning", 9.9: "warning", 10: "critical"} {
		if got := a.severity(burn); got != want {
			t.Fatalf("severity(%v) = %q, want %q", burn, got, want)
		}
	}
}
