package evilclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for address resolution and
// settings construction. It is safe for concurrent use. A nil collector is
// valid and records nothing.
type MetricsCollector struct {
	resolutionsTotal *prometheus.CounterVec

	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec

	validationFailures *prometheus.CounterVec

	memoComputes *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		resolutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "evilclient_resolutions_total",
				Help: "Total number of address resolutions by outcome",
			},
			[]string{"outcome"},
		),
		buildsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "evilclient_settings_builds_total",
				Help: "Total number of settings constructions by outcome",
			},
			[]string{"schema", "outcome"},
		),
		buildDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evilclient_settings_build_duration_seconds",
				Help:    "Duration of settings constructions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"schema"},
		),
		validationFailures: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "evilclient_validation_failures_total",
				Help: "Total number of failed option checks by schema and option",
			},
			[]string{"schema", "option"},
		),
		memoComputes: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "evilclient_memo_computes_total",
				Help: "Total number of memoized attribute computations",
			},
			[]string{"schema", "attribute"},
		),
	}
	if r, ok := registry.(*prometheus.Registry); ok {
		mc.registry = r
	}

	return mc
}

// RecordResolution increments the resolution counter for an outcome.
func (mc *MetricsCollector) RecordResolution(outcome string) {
	if mc == nil {
		return
	}

	mc.resolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordBuild records a settings construction and its duration.
func (mc *MetricsCollector) RecordBuild(schema, outcome string, duration time.Duration) {
	if mc == nil {
		return
	}

	mc.buildsTotal.WithLabelValues(schema, outcome).Inc()
	mc.buildDuration.WithLabelValues(schema).Observe(duration.Seconds())
}

// RecordValidationFailure increments the failed check counter for an option.
func (mc *MetricsCollector) RecordValidationFailure(schema, option string) {
	if mc == nil {
		return
	}

	mc.validationFailures.WithLabelValues(schema, option).Inc()
}

// RecordMemoCompute increments the computation counter for a memoized attribute.
func (mc *MetricsCollector) RecordMemoCompute(schema, attribute string) {
	if mc == nil {
		return
	}

	mc.memoComputes.WithLabelValues(schema, attribute).Inc()
}

// GetRegistry exposes the underlying prometheus registry. It is nil when the
// collector was built on a registerer that is not a *prometheus.Registry.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	return mc.registry
}
