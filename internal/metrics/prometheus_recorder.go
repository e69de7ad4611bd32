package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "venblog"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	postsRendered   prom.Gauge
	rebuildTriggers *prom.CounterVec
	httpDuration    *prom.HistogramVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		postsRendered: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts_rendered",
			Help:      "Number of posts rendered by the last successful build",
		}),
		rebuildTriggers: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_triggers_total",
			Help:      "Rebuild requests by whether they started a build or were coalesced",
		}, []string{"coalesced"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "devserver",
			Name:      "request_duration_seconds",
			Help:      "Dev server request duration",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.postsRendered, pr.rebuildTriggers, pr.httpDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPostsRendered(n int) {
	if p == nil || p.postsRendered == nil {
		return
	}
	p.postsRendered.Set(float64(n))
}

func (p *PrometheusRecorder) IncRebuildTrigger(coalesced bool) {
	if p == nil || p.rebuildTriggers == nil {
		return
	}
	p.rebuildTriggers.WithLabelValues(strconv.FormatBool(coalesced)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method string, status int, d time.Duration) {
	if p == nil || p.httpDuration == nil {
		return
	}
	p.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
