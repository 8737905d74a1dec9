package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bitbackup/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Job is the Pushgateway job name used by check runs.
const Job = "bitbackup"

// Outcome labels for FilesChecked.
const (
	OutcomeAdded     = "added"
	OutcomeRemoved   = "removed"
	OutcomeModified  = "modified"
	OutcomeUnchanged = "unchanged"
	OutcomeBitRot    = "bitrot"
)

// Metrics holds the application collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	// Check metrics
	FilesChecked    *prometheus.CounterVec
	LastRunTime     prometheus.Gauge
	LastRunDuration prometheus.Gauge
	BitRotFiles     prometheus.Gauge

	// HTTP metrics
	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FilesChecked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitbackup_files_checked_total",
				Help: "Files processed by check runs, by outcome",
			},
			[]string{"outcome"},
		),
		LastRunTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bitbackup_last_run_timestamp_seconds",
				Help: "Unix time the last check run finished",
			},
		),
		LastRunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bitbackup_last_run_duration_seconds",
				Help: "Duration of the last check run in seconds",
			},
		),
		BitRotFiles: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bitbackup_bitrot_files",
				Help: "Files with bit rot found by the last check run",
			},
		),

		RequestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitbackup_api_requests_total",
				Help: "Total number of API requests by method, route, and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitbackup_api_request_duration_seconds",
				Help:    "Histogram of request durations by method and route",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the outcome of one check run that finished at end.
func (m *Metrics) ObserveRun(s reconcile.Summary, duration time.Duration, end time.Time) {
	m.FilesChecked.WithLabelValues(OutcomeAdded).Add(float64(s.Added))
	m.FilesChecked.WithLabelValues(OutcomeRemoved).Add(float64(s.Removed))
	m.FilesChecked.WithLabelValues(OutcomeModified).Add(float64(s.Modified))
	m.FilesChecked.WithLabelValues(OutcomeUnchanged).Add(float64(s.Unchanged + s.Backfilled))
	m.FilesChecked.WithLabelValues(OutcomeBitRot).Add(float64(s.BitRot))

	m.LastRunTime.Set(float64(end.Unix()))
	m.LastRunDuration.Set(duration.Seconds())
	m.BitRotFiles.Set(float64(s.BitRot))
}

// Push sends the registry to the Pushgateway at url, grouped by scan root.
func (m *Metrics) Push(ctx context.Context, url, root string) error {
	return push.New(url, Job).
		Gatherer(m.registry).
		Grouping("root", root).
		PushContext(ctx)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// FiberHandler exposes Handler as a Fiber route.
func (m *Metrics) FiberHandler() fiber.Handler {
	return adaptor.HTTPHandler(m.Handler())
}

// Middleware records request counts and durations.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		m.RequestCount.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
