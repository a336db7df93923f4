package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder on a private Prometheus registry.
// When textfile is set, Flush writes the registry in the text exposition
// format for the node-exporter textfile collector.
type PrometheusRecorder struct {
	reg            *prom.Registry
	textfile       string
	phaseDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	documents      *prom.GaugeVec
	pagesRendered  *prom.CounterVec
	exampleResults *prom.CounterVec
	brokenImages   prom.Gauge
	buildOutcome   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg (a new
// registry when nil).
func NewPrometheusRecorder(reg *prom.Registry, textfile string) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg:      reg,
		textfile: textfile,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		documents: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "documents",
			Help:      "Reference documents seen by the last build",
		}, []string{"state"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written by kind",
		}, []string{"kind"}),
		exampleResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "example_results_total",
			Help:      "Example executions by result",
		}, []string{"result"}),
		brokenImages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "broken_images",
			Help:      "Examples whose requested image is missing",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.buildDuration, pr.documents, pr.pagesRendered,
		pr.exampleResults, pr.brokenImages, pr.buildOutcome)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetDocuments(total, stale int) {
	p.documents.WithLabelValues("total").Set(float64(total))
	p.documents.WithLabelValues("stale").Set(float64(stale))
}

func (p *PrometheusRecorder) IncPagesRendered(kind string) {
	p.pagesRendered.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncExampleResult(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.exampleResults.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) SetBrokenImages(n int) {
	p.brokenImages.Set(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

// Flush writes the textfile, if configured.
func (p *PrometheusRecorder) Flush() error {
	if p.textfile == "" {
		return nil
	}
	return prom.WriteToTextfile(p.textfile, p.reg)
}

// Registry exposes the underlying registry, e.g. for the preview server.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}
