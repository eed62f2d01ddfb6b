package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RouteResolutions       *prometheus.CounterVec
	ExternalLookupFailures prometheus.Counter
	RepairRuns             *prometheus.CounterVec
	RepairDuration         *prometheus.HistogramVec
	TimelineIssues         *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on the default registry
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers the metrics on reg
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RouteResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_resolutions_total",
			Help:      "Route resolutions by the tier that answered",
		}, []string{"tier"}),
		ExternalLookupFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_external_lookup_failures_total",
			Help:      "External route lookups that failed or returned nothing usable",
		}),
		RepairRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repair_runs_total",
			Help:      "Repair operations run per order",
		}, []string{"operation", "status"}),
		RepairDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repair_duration_seconds",
			Help:      "Time taken by a repair operation for one order",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		TimelineIssues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeline_issues_total",
			Help:      "Timeline issues reported by validation",
		}, []string{"severity"}),
	}
}

// ObserveResolution counts a route resolution. Safe on a nil receiver.
func (m *Metrics) ObserveResolution(tier string) {
	if m == nil {
		return
	}
	m.RouteResolutions.WithLabelValues(tier).Inc()
}

// ObserveExternalFailure counts a failed external lookup. Safe on a nil receiver.
func (m *Metrics) ObserveExternalFailure() {
	if m == nil {
		return
	}
	m.ExternalLookupFailures.Inc()
}

// ObserveRepair records one repair run. Safe on a nil receiver.
func (m *Metrics) ObserveRepair(operation, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RepairRuns.WithLabelValues(operation, status).Inc()
	m.RepairDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveIssue counts a validation issue. Safe on a nil receiver.
func (m *Metrics) ObserveIssue(severity string) {
	if m == nil {
		return
	}
	m.TimelineIssues.WithLabelValues(severity).Inc()
}
