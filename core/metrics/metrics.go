package metrics

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes.
const (
	OutcomeClean       = "clean"
	OutcomeDiscrepancy = "discrepancies"
	OutcomeFailed      = "failed"
)

// Manager owns the reconciler's Prometheus collectors.
// A nil or disabled Manager is a no-op so callers never need to guard.
type Manager struct {
	enabled  bool
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	discrepancies *prometheus.CounterVec
	runDuration   prometheus.Histogram
	datasetSize   *prometheus.GaugeVec
	generated     prometheus.Counter
}

// NewManager creates the collectors on a private registry.
func NewManager(cfg Config) *Manager {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "migration"
	}

	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Manager{
		enabled:  cfg.Enabled,
		registry: registry,
		runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Total number of reconciliation runs by outcome",
		}, []string{"outcome"}),
		discrepancies: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "discrepancies_total",
			Help:      "Total number of reported discrepancies by type",
		}, []string{"type"}),
		runDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "run_duration_seconds",
			Help:      "Histogram of reconciliation run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		datasetSize: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "dataset_records",
			Help:      "Number of records in the last loaded dataset by side",
		}, []string{"side"}),
		generated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "records_total",
			Help:      "Total number of synthetic records produced",
		}),
	}
}

// Enabled reports whether metrics are collected.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled
}

// ObserveRun records one finished run.
func (m *Manager) ObserveRun(outcome string, d time.Duration) {
	if !m.Enabled() {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(d.Seconds())
}

// AddDiscrepancies adds count reported entries of the given type.
func (m *Manager) AddDiscrepancies(kind string, count int) {
	if !m.Enabled() || count <= 0 {
		return
	}
	m.discrepancies.WithLabelValues(kind).Add(float64(count))
}

// SetDatasetSize records the size of the dataset loaded for side.
func (m *Manager) SetDatasetSize(side string, records int) {
	if !m.Enabled() {
		return
	}
	m.datasetSize.WithLabelValues(side).Set(float64(records))
}

// AddGenerated counts synthetic records written by the generator.
func (m *Manager) AddGenerated(records int) {
	if !m.Enabled() || records <= 0 {
		return
	}
	m.generated.Add(float64(records))
}

// HTTPHandler exposes the registry in the Prometheus text format.
func (m *Manager) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler adapts HTTPHandler for Fiber.
func (m *Manager) Handler() fiber.Handler {
	return adaptor.HTTPHandler(m.HTTPHandler())
}
