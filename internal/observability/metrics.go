package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *Gauge
	generatorCalls   *CounterVec
	generatorLatency *HistogramVec
	materialLookups  *CounterVec
	plansBuilt       *CounterVec

	sloEvents     *CounterVec
	sloCompliance *GaugeVec
	sloBudget     *GaugeVec
	sloBurn       *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current is nil until Init runs with metrics enabled. All methods accept a nil receiver.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// New builds an unregistered metric set.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("palearn_http_requests_total", "HTTP requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("palearn_http_request_duration_seconds", "HTTP latency in seconds by method/route.",
			[]string{"method", "route"}, []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120}),
		apiInflight:    NewGauge("palearn_http_inflight_requests", "In-flight HTTP requests."),
		generatorCalls: NewCounterVec("palearn_generator_calls_total", "Generator tier calls by tier/outcome.", []string{"tier", "outcome"}),
		generatorLatency: NewHistogramVec("palearn_generator_latency_seconds", "Generator tier latency in seconds.",
			[]string{"tier"}, []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90, 120}),
		materialLookups: NewCounterVec("palearn_material_lookups_total", "Material lookups by source/outcome.", []string{"source", "outcome"}),
		plansBuilt:      NewCounterVec("palearn_plans_total", "Assembled plans by path.", []string{"path"}),

		sloEvents:     NewCounterVec("palearn_slo_events_total", "SLO events by slo/result.", []string{"slo", "result"}),
		sloCompliance: NewGaugeVec("palearn_slo_compliance", "SLI over the evaluation window.", []string{"slo", "window"}),
		sloBudget:     NewGaugeVec("palearn_slo_error_budget_remaining", "Remaining error budget ratio.", []string{"slo", "window"}),
		sloBurn:       NewGaugeVec("palearn_slo_burn_rate", "Error budget burn rate.", []string{"slo", "window"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []Metric{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.generatorCalls, m.generatorLatency,
		m.materialLookups, m.plansBuilt,
		m.sloEvents, m.sloCompliance, m.sloBudget, m.sloBurn,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
	m.sloEvent(sloAPIAvailability, status < http.StatusInternalServerError)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveGenerator(tier, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.generatorCalls.Inc(tier, outcome)
	m.generatorLatency.Observe(dur.Seconds(), tier)
	m.sloEvent(sloGeneratorSuccess, outcome == "accepted")
}

func (m *Metrics) IncMaterialLookup(source, outcome string) {
	if m == nil {
		return
	}
	m.materialLookups.Inc(source, outcome)
	// Unconfigured sources are not lookups.
	if outcome != "skipped" {
		m.sloEvent(sloMaterialLookup, outcome == "ok")
	}
}

func (m *Metrics) IncPlan(path string) {
	if m != nil {
		m.plansBuilt.Inc(path)
	}
}

func (m *Metrics) GeneratorCalls(tier, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.generatorCalls.Value(tier, outcome)
}
