// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for link-suggestion runs.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "seo-link-suggester"
	namespace   = "link_suggester"
)

// Page statuses.
const (
	PageOK     = "ok"
	PageFailed = "failed"
)

// Metrics holds all link suggester Prometheus metrics
type Metrics struct {
	// Run metrics
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Candidates  prometheus.Histogram

	// Stage metrics
	StageDuration *prometheus.HistogramVec

	// Enrichment metrics
	PagesFetched       *prometheus.CounterVec
	EnrichmentProgress prometheus.Gauge

	// Link metrics
	LinksProposed prometheus.Counter
	LinksVerified prometheus.Counter
	LinksDropped  *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers metrics with the default Prometheus registry. It
// must be called at most once per process.
func NewProvider() *Provider {
	return newProvider(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewProviderWithRegistry registers metrics with reg, which also backs
// Handler.
func NewProviderWithRegistry(reg *prometheus.Registry) *Provider {
	return newProvider(reg, reg)
}

func newProvider(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: gatherer,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(factory promauto.Factory) *Metrics {
	m := &Metrics{}
	initRunMetrics(factory, m)
	initEnrichmentMetrics(factory, m)
	initLinkMetrics(factory, m)
	return m
}

func initRunMetrics(factory promauto.Factory, m *Metrics) {
	m.Runs = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total link-suggestion runs by outcome",
	}, []string{"outcome"})

	m.RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "End-to-end duration of a run",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	})

	m.Candidates = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "candidate_urls",
		Help:      "Candidate URLs resolved from the sitemap per run",
		Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 5000},
	})

	m.StageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})
}

func initEnrichmentMetrics(factory promauto.Factory, m *Metrics) {
	m.PagesFetched = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_fetched_total",
		Help:      "Candidate pages enriched, by status (ok, failed)",
	}, []string{"status"})

	m.EnrichmentProgress = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "enrichment_progress_ratio",
		Help:      "Fraction of candidate pages enriched in the latest run",
	})
}

func initLinkMetrics(factory promauto.Factory, m *Metrics) {
	m.LinksProposed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_proposed_total",
		Help:      "Links proposed by the model",
	})

	m.LinksVerified = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_verified_total",
		Help:      "Links that passed verification",
	})

	m.LinksDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_dropped_total",
		Help:      "Proposed links discarded by verification, by reason",
	}, []string{"reason"})
}

// RecordRun records the outcome and duration of one run
func (p *Provider) RecordRun(_ context.Context, outcome string, duration time.Duration) {
	p.Metrics.Runs.WithLabelValues(outcome).Inc()
	p.Metrics.RunDuration.Observe(duration.Seconds())
}

// RecordStage records how long a pipeline stage took
func (p *Provider) RecordStage(_ context.Context, stage string, duration time.Duration) {
	p.Metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCandidates records the number of candidate URLs in a run
func (p *Provider) RecordCandidates(count int) {
	p.Metrics.Candidates.Observe(float64(count))
}

// RecordPage counts one enriched page
func (p *Provider) RecordPage(ok bool) {
	status := PageOK
	if !ok {
		status = PageFailed
	}
	p.Metrics.PagesFetched.WithLabelValues(status).Inc()
}

// SetProgress sets the enrichment progress of the current run
func (p *Provider) SetProgress(done, total int) {
	if total <= 0 {
		return
	}
	p.Metrics.EnrichmentProgress.Set(float64(done) / float64(total))
}

// RecordLinks records proposal, verification and per-reason drop counts
func (p *Provider) RecordLinks(_ context.Context, proposed, verified int, dropped map[string]int) {
	p.Metrics.LinksProposed.Add(float64(proposed))
	p.Metrics.LinksVerified.Add(float64(verified))
	for reason, n := range dropped {
		p.Metrics.LinksDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
