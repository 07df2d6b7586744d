// Package prom provides a metrics.Provider backed by the Prometheus
// client library. Instrument vectors are created lazily, when the
// first observation arrives and the label names are known, and are
// registered on a dedicated (non-global) registry so that multiple
// providers can coexist in one process.
package prom

import (
	"net/http"
	"sync"

	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	xmetrics "github.com/Ptrskay3/routemetrics/metrics"
)

var (
	_ xmetrics.Provider  = (*Provider)(nil)
	_ xmetrics.Describer = (*Provider)(nil)
)

// Provider creates prometheus instruments and serves their rendered
// exposition text.
//
// Every metric name must be used with one consistent set of label
// names; the underlying vector is created from the labels of the first
// observation.
type Provider struct {
	registry *prometheus.Registry

	mu             sync.Mutex
	counters       map[string]*prometheus.CounterVec
	gauges         map[string]*prometheus.GaugeVec
	histograms     map[string]*prometheus.HistogramVec
	help           map[string]string
	buckets        map[string][]float64
	defaultBuckets []float64
}

// Option configures a Provider.
type Option func(*Provider)

// WithRegistry makes the provider register instruments on r instead of
// a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(p *Provider) {
		p.registry = r
	}
}

// WithBuckets overrides the histogram buckets used for the named
// metric.
func WithBuckets(name string, buckets []float64) Option {
	return func(p *Provider) {
		p.buckets[name] = buckets
	}
}

// WithDefaultBuckets overrides the buckets used for histograms without
// a per-metric override. The initial default is
// metrics.SecondsDurationBuckets.
func WithDefaultBuckets(buckets []float64) Option {
	return func(p *Provider) {
		p.defaultBuckets = buckets
	}
}

// New constructs a Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		registry:       prometheus.NewRegistry(),
		counters:       make(map[string]*prometheus.CounterVec),
		gauges:         make(map[string]*prometheus.GaugeVec),
		histograms:     make(map[string]*prometheus.HistogramVec),
		help:           make(map[string]string),
		buckets:        make(map[string][]float64),
		defaultBuckets: xmetrics.SecondsDurationBuckets,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the prometheus registry instruments are registered
// on.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns an http.Handler serving the exposition text for all
// instruments created by this provider, suitable for mounting on a
// /metrics route.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Stop implements Provider.
func (p *Provider) Stop() {}

// DescribeCounter implements Describer.
func (p *Provider) DescribeCounter(name, unit, help string) { p.describe(name, help) }

// DescribeGauge implements Describer.
func (p *Provider) DescribeGauge(name, unit, help string) { p.describe(name, help) }

// DescribeHistogram implements Describer.
func (p *Provider) DescribeHistogram(name, unit, help string) { p.describe(name, help) }

func (p *Provider) describe(name, help string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.help[name] = help
}

// NewCounter implements Provider.
func (p *Provider) NewCounter(name string) kitmetrics.Counter {
	return &counter{p: p, name: name}
}

// NewGauge implements Provider.
func (p *Provider) NewGauge(name string) kitmetrics.Gauge {
	return &gauge{p: p, name: name}
}

// NewHistogram implements Provider. The buckets argument is the go-kit
// approximate bucket count and is ignored; boundaries come from the
// provider options.
func (p *Provider) NewHistogram(name string, _ int) kitmetrics.Histogram {
	return &histogram{p: p, name: name}
}

func (p *Provider) counterVec(name string, labelNames []string) *prometheus.CounterVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.counters[name]; ok {
		return v
	}
	v := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: p.helpFor(name),
	}, labelNames)
	p.registry.MustRegister(v)
	p.counters[name] = v
	return v
}

func (p *Provider) gaugeVec(name string, labelNames []string) *prometheus.GaugeVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.gauges[name]; ok {
		return v
	}
	v := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: p.helpFor(name),
	}, labelNames)
	p.registry.MustRegister(v)
	p.gauges[name] = v
	return v
}

func (p *Provider) histogramVec(name string, labelNames []string) *prometheus.HistogramVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.histograms[name]; ok {
		return v
	}
	buckets, ok := p.buckets[name]
	if !ok {
		buckets = p.defaultBuckets
	}
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    p.helpFor(name),
		Buckets: buckets,
	}, labelNames)
	p.registry.MustRegister(v)
	p.histograms[name] = v
	return v
}

// helpFor is called with p.mu held.
func (p *Provider) helpFor(name string) string {
	if h, ok := p.help[name]; ok {
		return h
	}
	return name
}

type counter struct {
	p    *Provider
	name string
	lvs  []string
}

// With implements the metrics.Counter interface.
func (c *counter) With(labelValues ...string) kitmetrics.Counter {
	return &counter{
		p:    c.p,
		name: c.name,
		lvs:  append(append([]string(nil), c.lvs...), labelValues...),
	}
}

// Add implements the metrics.Counter interface.
func (c *counter) Add(delta float64) {
	c.p.counterVec(c.name, labelNames(c.lvs)).With(labelMap(c.lvs)).Add(delta)
}

type gauge struct {
	p    *Provider
	name string
	lvs  []string
}

// With implements the metrics.Gauge interface.
func (g *gauge) With(labelValues ...string) kitmetrics.Gauge {
	return &gauge{
		p:    g.p,
		name: g.name,
		lvs:  append(append([]string(nil), g.lvs...), labelValues...),
	}
}

// Set implements the metrics.Gauge interface.
func (g *gauge) Set(value float64) {
	g.p.gaugeVec(g.name, labelNames(g.lvs)).With(labelMap(g.lvs)).Set(value)
}

// Add implements the metrics.Gauge interface.
func (g *gauge) Add(delta float64) {
	g.p.gaugeVec(g.name, labelNames(g.lvs)).With(labelMap(g.lvs)).Add(delta)
}

type histogram struct {
	p    *Provider
	name string
	lvs  []string
}

// With implements the metrics.Histogram interface.
func (h *histogram) With(labelValues ...string) kitmetrics.Histogram {
	return &histogram{
		p:    h.p,
		name: h.name,
		lvs:  append(append([]string(nil), h.lvs...), labelValues...),
	}
}

// Observe implements the metrics.Histogram interface.
func (h *histogram) Observe(value float64) {
	h.p.histogramVec(h.name, labelNames(h.lvs)).With(labelMap(h.lvs)).Observe(value)
}

func labelNames(lvs []string) []string {
	names := make([]string, 0, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		names = append(names, lvs[i])
	}
	return names
}

func labelMap(lvs []string) prometheus.Labels {
	labels := make(prometheus.Labels, len(lvs)/2)
	for i := 0; i+1 < len(lvs); i += 2 {
		labels[lvs[i]] = lvs[i+1]
	}
	return labels
}
