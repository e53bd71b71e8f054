// Package metrics provides Prometheus metrics for floorwalk.
//
// A [Metrics] value implements the ingest, query and cache hooks of
// package observability, so registering it once at startup instruments the
// whole process:
//
//	m := metrics.New(prometheus.NewRegistry())
//	observability.SetIngestHooks(m)
//	observability.SetQueryHooks(m)
//	observability.SetCacheHooks(m)
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/observability"
)

const namespace = "floorwalk"

// Metrics holds all Prometheus metrics for floorwalk.
type Metrics struct {
	reg *prometheus.Registry

	// Ingestion metrics
	FloorsTotal       *prometheus.CounterVec
	FloorDuration     prometheus.Histogram
	ElementsSkipped   *prometheus.CounterVec
	GraphPoints       prometheus.Gauge
	GraphConnections  prometheus.Gauge
	GraphFloors       prometheus.Gauge
	GraphBuildSeconds prometheus.Gauge

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	PathCost      *prometheus.HistogramVec
	PathPoints    *prometheus.HistogramVec

	// Cache metrics
	CacheOpsTotal *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New creates all metrics and registers them on reg together with the Go
// runtime and process collectors. A nil reg creates a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	m := &Metrics{reg: reg}

	m.FloorsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_floors_total",
		Help:      "Floor documents processed, by status (loaded, skipped)",
	}, []string{"status"})

	m.FloorDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_floor_duration_seconds",
		Help:      "Time to read and parse one floor document",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	m.ElementsSkipped = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_elements_skipped_total",
		Help:      "Drawing elements skipped during ingestion, by floor",
	}, []string{"floor"})

	m.GraphPoints = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_points",
		Help:      "Points in the most recently built graph",
	})

	m.GraphConnections = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_connections",
		Help:      "Connections in the most recently built graph",
	})

	m.GraphFloors = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_floors",
		Help:      "Floors that contributed to the most recently built graph",
	})

	m.GraphBuildSeconds = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_build_seconds",
		Help:      "Duration of the most recent graph build",
	})

	m.QueriesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Route queries by kind and outcome code (ok for answered queries)",
	}, []string{"kind", "outcome"})

	m.QueryDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Route query latency",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"kind"})

	m.PathCost = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "path_cost",
		Help:      "Cost of answered routes in drawing units",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
	}, []string{"kind"})

	m.PathPoints = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "path_points",
		Help:      "Number of points on answered routes",
		Buckets:   prometheus.LinearBuckets(2, 4, 10),
	}, []string{"kind"})

	m.CacheOpsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Result cache operations by key type and result (hit, miss, set)",
	}, []string{"type", "result"})

	m.CacheBytes = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_written_bytes_total",
		Help:      "Bytes written to the result cache",
	}, []string{"type"})

	m.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "status"})

	m.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	m.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) OnFloorStart(context.Context, int) {}

func (m *Metrics) OnFloorComplete(_ context.Context, _, _, _ int, d time.Duration, err error) {
	status := "loaded"
	if err != nil {
		status = "skipped"
	}
	m.FloorsTotal.WithLabelValues(status).Inc()
	m.FloorDuration.Observe(d.Seconds())
}

func (m *Metrics) OnElementSkipped(_ context.Context, floor int, _ string) {
	m.ElementsSkipped.WithLabelValues(strconv.Itoa(floor)).Inc()
}

func (m *Metrics) OnGraphBuilt(_ context.Context, points, connections, floors int, d time.Duration) {
	m.GraphPoints.Set(float64(points))
	m.GraphConnections.Set(float64(connections))
	m.GraphFloors.Set(float64(floors))
	m.GraphBuildSeconds.Set(d.Seconds())
}

func (m *Metrics) OnQuery(_ context.Context, kind string, d time.Duration, err error) {
	m.QueriesTotal.WithLabelValues(kind, outcome(err)).Inc()
	m.QueryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnPathFound(_ context.Context, kind string, cost float64, points int) {
	m.PathCost.WithLabelValues(kind).Observe(cost)
	m.PathPoints.WithLabelValues(kind).Observe(float64(points))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// outcome maps a query error to a bounded label value.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return string(errors.ErrCodeInternal)
}

var (
	_ observability.IngestHooks = (*Metrics)(nil)
	_ observability.QueryHooks  = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)
