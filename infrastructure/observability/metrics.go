package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Inference metrics
	InferenceRuns     prometheus.Counter
	InferredRelations prometheus.Counter
	Conflicts         prometheus.Counter
	InferenceDuration prometheus.Histogram

	// Graph size
	GraphNodes     prometheus.Gauge
	GraphRelations prometheus.Gauge
}

// NewCollector creates a collector with its own registry, so several
// collectors can live in one process (tests do this).
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InferenceRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_runs_total",
			Help:      "Total number of inference passes",
		}),
		InferredRelations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inferred_relations_total",
			Help:      "Total number of relations created by inference",
		}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_conflicts_total",
			Help:      "Total number of conflicts reported by inference",
		}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Inference pass duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in the current graph",
		}),
		GraphRelations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_relations",
			Help:      "Number of relations in the current graph",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.InferenceRuns,
		c.InferredRelations,
		c.Conflicts,
		c.InferenceDuration,
		c.GraphNodes,
		c.GraphRelations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry the metrics are registered with
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordInference records one inference pass
func (c *Collector) RecordInference(newRelations, conflicts int, duration time.Duration) {
	c.InferenceRuns.Inc()
	c.InferredRelations.Add(float64(newRelations))
	c.Conflicts.Add(float64(conflicts))
	c.InferenceDuration.Observe(duration.Seconds())
}

// RecordGraphSize records the size of the current graph
func (c *Collector) RecordGraphSize(nodes, relations int) {
	c.GraphNodes.Set(float64(nodes))
	c.GraphRelations.Set(float64(relations))
}
