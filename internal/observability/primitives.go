package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// Metric is anything that renders itself in the Prometheus text format.
type Metric interface {
	WritePrometheus(w io.Writer) error
}

// series is a float per label set, shared by counters and gauges.
type series struct {
	name, help, kind string
	labels           []string

	mu   sync.RWMutex
	vals map[string]float64
}

func newSeries(kind, name, help string, labels []string) *series {
	return &series{name: name, help: help, kind: kind, labels: labels, vals: map[string]float64{}}
}

func (s *series) update(values []string, fn func(float64) float64) {
	key := renderLabels(s.labels, values)
	s.mu.Lock()
	s.vals[key] = fn(s.vals[key])
	s.mu.Unlock()
}

func (s *series) get(values []string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vals[renderLabels(s.labels, values)]
}

func (s *series) write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", s.name, s.help, s.name, s.kind); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range sortedKeys(s.vals) {
		if _, err := fmt.Fprintf(w, "%s%s %g\n", s.name, key, s.vals[key]); err != nil {
			return err
		}
	}
	return nil
}

// CounterVec only grows. All methods are no-ops on a nil receiver.
type CounterVec struct{ s *series }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{s: newSeries("counter", name, help, labels)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil || v < 0 {
		return
	}
	c.s.update(values, func(cur float64) float64 { return cur + v })
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.s.get(values)
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.s.write(w)
}

// GaugeVec holds the last value set per label set.
type GaugeVec struct{ s *series }

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{s: newSeries("gauge", name, help, labels)}
}

func (g *GaugeVec) Set(v float64, values ...string) {
	if g == nil {
		return
	}
	g.s.update(values, func(float64) float64 { return v })
}

func (g *GaugeVec) Add(v float64, values ...string) {
	if g == nil {
		return
	}
	g.s.update(values, func(cur float64) float64 { return cur + v })
}

func (g *GaugeVec) Value(values ...string) float64 {
	if g == nil {
		return 0
	}
	return g.s.get(values)
}

func (g *GaugeVec) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.s.write(w)
}

// Gauge is an unlabelled GaugeVec.
type Gauge struct{ vec *GaugeVec }

func NewGauge(name, help string) *Gauge {
	g := &Gauge{vec: NewGaugeVec(name, help, nil)}
	g.vec.Set(0)
	return g
}

func (g *Gauge) Inc() {
	if g != nil {
		g.vec.Add(1)
	}
}

func (g *Gauge) Dec() {
	if g != nil {
		g.vec.Add(-1)
	}
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.vec.WritePrometheus(w)
}

var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// HistogramVec keeps cumulative bucket counts per label set.
type HistogramVec struct {
	name, help string
	labels     []string
	buckets    []float64

	mu    sync.RWMutex
	hists map[string]*histogram
}

type histogram struct {
	cumulative []uint64 // per bucket, observations <= bound
	count      uint64
	sum        float64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}
	return &HistogramVec{name: name, help: help, labels: labels, buckets: buckets, hists: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	key := renderLabels(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist := h.hists[key]
	if hist == nil {
		hist = &histogram{cumulative: make([]uint64, len(h.buckets))}
		h.hists[key] = hist
	}
	for i, bound := range h.buckets {
		if v <= bound {
			hist.cumulative[i]++
		}
	}
	hist.count++
	hist.sum += v
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, key := range sortedKeys(h.hists) {
		hist := h.hists[key]
		var b strings.Builder
		for i, bound := range h.buckets {
			fmt.Fprintf(&b, "%s_bucket%s %d\n", h.name, addLe(key, fmt.Sprintf("%g", bound)), hist.cumulative[i])
		}
		fmt.Fprintf(&b, "%s_bucket%s %d\n", h.name, addLe(key, "+Inf"), hist.count)
		fmt.Fprintf(&b, "%s_sum%s %g\n%s_count%s %d\n", h.name, key, hist.sum, h.name, key, hist.count)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// renderLabels builds `{a="x",b="y"}`. Missing or empty values read "unknown".
func renderLabels(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		v := "unknown"
		if i < len(values) && values[i] != "" {
			v = values[i]
		}
		pairs[i] = name + `="` + labelEscaper.Replace(v) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func addLe(labels, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
