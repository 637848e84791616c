package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const (
	sloAPIAvailability  = "api_availability"
	sloGeneratorSuccess = "generator_success"
	sloMaterialLookup   = "material_lookup"
)

func (m *Metrics) sloEvent(slo string, good bool) {
	result := "bad"
	if good {
		result = "good"
	}
	m.sloEvents.Inc(slo, result)
}

// ring keeps the last n per-tick deltas and their running total.
type ring struct {
	buf   []float64
	pos   int
	total float64
}

func newRing(n int) *ring { return &ring{buf: make([]float64, max(n, 1))} }

func (r *ring) push(v float64) {
	r.total += v - r.buf[r.pos]
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
}

// objective is one SLO: its target and the good/bad counts seen over the window.
type objective struct {
	name      string
	target    float64
	good, bad *ring
	seenGood  float64
	seenBad   float64
}

// sample folds the counters' growth since the last tick into the window.
func (o *objective) sample(good, bad float64) {
	o.good.push(growth(good, o.seenGood))
	o.bad.push(growth(bad, o.seenBad))
	o.seenGood, o.seenBad = good, bad
}

// sloStatus is an objective's standing over the window.
type sloStatus struct {
	SLI    float64
	Budget float64
	Burn   float64
}

func (o *objective) status() sloStatus {
	total := o.good.total + o.bad.total
	if total <= 0 {
		return sloStatus{SLI: 1, Budget: 1}
	}
	st := sloStatus{SLI: clamp01(1 - o.bad.total/total)}
	if o.target < 1 {
		st.Burn = (1 - st.SLI) / (1 - o.target)
	}
	st.Budget = clamp01(1 - st.Burn)
	return st
}

type alertSettings struct {
	webhook     string
	owner       string
	runbook     string
	minInterval time.Duration
	burnWarn    float64
	burnCrit    float64
}

func (a alertSettings) enabled() bool { return a.webhook != "" && a.owner != "" }

func (a alertSettings) severity(burn float64) string {
	switch {
	case burn >= a.burnCrit:
		return "critical"
	case burn >= a.burnWarn:
		return "warning"
	default:
		return ""
	}
}

type alertPayload struct {
	Title           string  `json:"title"`
	Severity        string  `json:"severity"`
	Owner           string  `json:"owner"`
	SLO             string  `json:"slo"`
	Window          string  `json:"window"`
	SLI             float64 `json:"sli"`
	Target          float64 `json:"target"`
	BurnRate        float64 `json:"burn_rate"`
	BudgetRemaining float64 `json:"error_budget_remaining"`
	Runbook         string  `json:"runbook,omitempty"`
	Timestamp       string  `json:"timestamp"`
}

// SLOEvaluator turns the slo event counters into compliance, error budget
// and burn rate gauges on every tick, posting to a webhook when burn crosses
// a threshold. One alert per objective and severity per min interval.
type SLOEvaluator struct {
	metrics *Metrics
	log     *logger.Logger

	interval   time.Duration
	window     string
	objectives []*objective

	alerts alertSettings
	client *http.Client

	mu   sync.Mutex
	sent map[string]time.Time
}

// StartSLOEvaluator runs until ctx is done when SLO_ENABLED is set.
func (m *Metrics) StartSLOEvaluator(ctx context.Context, log *logger.Logger) {
	if m == nil || !envutil.Bool("SLO_ENABLED", false) {
		return
	}
	e := newSLOEvaluator(m, log)
	go e.run(ctx)
	if log != nil {
		log.Info("SLO evaluator started", "window", e.window, "interval", e.interval.String(), "alerts", e.alerts.enabled())
	}
}

func newSLOEvaluator(m *Metrics, log *logger.Logger) *SLOEvaluator {
	interval := envutil.Duration("SLO_EVAL_INTERVAL", time.Minute)
	if interval <= 0 {
		interval = time.Minute
	}
	window := max(envutil.Duration("SLO_WINDOW", 24*time.Hour), interval)
	ticks := int(window / interval)

	obj := func(name, env string, def float64) *objective {
		return &objective{name: name, target: clamp01(envutil.Float(env, def)), good: newRing(ticks), bad: newRing(ticks)}
	}
	return &SLOEvaluator{
		metrics:  m,
		log:      log,
		interval: interval,
		window:   formatWindowLabel(window),

		objectives: []*objective{
			obj(sloAPIAvailability, "SLO_API_AVAIL_TARGET", 0.995),
			obj(sloGeneratorSuccess, "SLO_GENERATOR_SUCCESS_TARGET", 0.9),
			obj(sloMaterialLookup, "SLO_MATERIAL_LOOKUP_TARGET", 0.9),
		},
		alerts: alertSettings{
			webhook:     envutil.String("SLO_ALERT_WEBHOOK_URL", ""),
			owner:       envutil.String("SLO_ALERT_OWNER", ""),
			runbook:     envutil.String("SLO_ALERT_RUNBOOK_URL", ""),
			minInterval: envutil.Duration("SLO_ALERT_MIN_INTERVAL", 15*time.Minute),
			burnWarn:    envutil.Float("SLO_ALERT_BURN_RATE_WARN", 2),
			burnCrit:    envutil.Float("SLO_ALERT_BURN_RATE_CRIT", 10),
		},
		client: &http.Client{Timeout: 5 * time.Second},
		sent:   map[string]time.Time{},
	}
}

func (e *SLOEvaluator) run(ctx context.Context) {
	t := time.NewTicker(e.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.evaluate(ctx)
		}
	}
}

func (e *SLOEvaluator) evaluate(ctx context.Context) {
	for _, o := range e.objectives {
		o.sample(e.metrics.sloEvents.Value(o.name, "good"), e.metrics.sloEvents.Value(o.name, "bad"))
		st := o.status()
		e.metrics.sloCompliance.Set(st.SLI, o.name, e.window)
		e.metrics.sloBudget.Set(st.Budget, o.name, e.window)
		e.metrics.sloBurn.Set(st.Burn, o.name, e.window)

		if !e.alerts.enabled() {
			continue
		}
		if sev := e.alerts.severity(st.Burn); sev != "" && e.claim(o.name+":"+sev) {
			e.alert(ctx, o, sev, st)
		}
	}
}

// claim reports whether an alert for key may go out now and records it.
func (e *SLOEvaluator) claim(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.sent[key]; ok && time.Since(last) < e.alerts.minInterval {
		return false
	}
	e.sent[key] = time.Now()
	return true
}

func (e *SLOEvaluator) alert(ctx context.Context, o *objective, severity string, st sloStatus) {
	err := e.post(ctx, alertPayload{
		Title:           "SLO burn rate alert",
		Severity:        severity,
		Owner:           e.alerts.owner,
		SLO:             o.name,
		Window:          e.window,
		SLI:             st.SLI,
		Target:          o.target,
		BurnRate:        st.Burn,
		BudgetRemaining: st.Budget,
		Runbook:         e.alerts.runbook,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
	if e.log == nil {
		return
	}
	if err != nil {
		e.log.Warn("slo alert not delivered", "slo", o.name, "severity", severity, "error", err)
		return
	}
	e.log.Info("slo alert sent", "slo", o.name, "severity", severity, "burn_rate", st.Burn)
}

func (e *SLOEvaluator) post(ctx context.Context, p alertPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.alerts.webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

// growth is the counter increase since prev, treating a drop as a reset.
func growth(cur, prev float64) float64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }

// formatWindowLabel renders whole days as "Nd", else whole hours, else minutes.
func formatWindowLabel(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d"
	case d >= time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	default:
		return strconv.Itoa(int(d/time.Minute)) + "m"
	}
}
