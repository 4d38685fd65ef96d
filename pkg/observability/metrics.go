package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	CapturesCreated prometheus.Counter
	CapturesDeleted prometheus.Counter
	GraphBuilds     prometheus.Counter
	SearchQueries   prometheus.Counter

	// Storage metrics
	StorageWrites *prometheus.CounterVec
	StorageReads  *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Singleton to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	capturesCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_created_total",
			Help:      "Total number of captures created",
		},
	)

	capturesDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_deleted_total",
			Help:      "Total number of captures deleted",
		},
	)

	graphBuilds := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Total number of graph derivations",
		},
	)

	searchQueries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
	)

	storageWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_writes_total",
			Help:      "Total number of blob store writes by outcome",
		},
		[]string{"outcome"},
	)

	storageReads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_reads_total",
			Help:      "Total number of blob store reads by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		capturesCreated,
		capturesDeleted,
		graphBuilds,
		searchQueries,
		storageWrites,
		storageReads,
	)

	globalCollector = &Collector{
		registry:        registry,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		CapturesCreated: capturesCreated,
		CapturesDeleted: capturesDeleted,
		GraphBuilds:     graphBuilds,
		SearchQueries:   searchQueries,
		StorageWrites:   storageWrites,
		StorageReads:    storageReads,
	}
	return globalCollector
}

// Handler returns an http.Handler exposing the collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records a completed HTTP request
func (c *Collector) ObserveHTTP(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordWrite records a blob store write outcome
func (c *Collector) RecordWrite(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.StorageWrites.WithLabelValues(outcome).Inc()
}

// RecordRead records a blob store read outcome
func (c *Collector) RecordRead(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.StorageReads.WithLabelValues(outcome).Inc()
}
