// Package prometheus registers and exposes the service's operational metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default histogram buckets.
var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	pipelineDurationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}
)

// Metrics holds every metric the service emits.  One instance is created at
// startup and injected into the HTTP middleware and the pipeline service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline
	PipelineDuration    *prometheus.HistogramVec
	PipelineErrorsTotal *prometheus.CounterVec
	MeshFaces           prometheus.Histogram

	// Cache
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Artifact store
	ArtifactUploadsTotal *prometheus.CounterVec
}

// New registers all service metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crystal_http_requests_total",
		Help: "Total HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crystal_http_request_duration_seconds",
		Help:    "HTTP request duration.",
		Buckets: httpDurationBuckets,
	}, []string{"method", "path"})

	m.PipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crystal_pipeline_stage_duration_seconds",
		Help:    "Duration of each pipeline stage (parse, expand, mesh, twin, encode).",
		Buckets: pipelineDurationBuckets,
	}, []string{"stage"})

	m.PipelineErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crystal_pipeline_errors_total",
		Help: "Pipeline failures by error code name.",
	}, []string{"code"})

	m.MeshFaces = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crystal_mesh_faces",
		Help:    "Face count of produced meshes.",
		Buckets: []float64{4, 8, 16, 32, 64, 128, 256, 512},
	})

	m.CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crystal_cache_hits_total",
		Help: "Render/export cache hits.",
	})
	m.CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crystal_cache_misses_total",
		Help: "Render/export cache misses.",
	})

	m.ArtifactUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crystal_artifact_uploads_total",
		Help: "Exported artifact uploads by kind and outcome.",
	}, []string{"kind", "outcome"})

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PipelineDuration,
		m.PipelineErrorsTotal,
		m.MeshFaces,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ArtifactUploadsTotal,
	)
	return m
}

// ObserveStage records one pipeline stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
