// Package instrumentation holds the Prometheus collectors of the service.
package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "liftlog"

type Instrumentation struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterGroupFailures *prometheus.CounterVec
	CounterImports       *prometheus.CounterVec
	CounterCacheHits     prometheus.Counter
	CounterCacheMisses   prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
	HistGroupDuration   *prometheus.HistogramVec
}

// NewInstrumentation registers the collectors with the default registerer.
func NewInstrumentation() *Instrumentation {
	return NewInstrumentationWithRegisterer(prometheus.DefaultRegisterer)
}

// NewTestInstrumentation registers the collectors with a throwaway registry.
func NewTestInstrumentation() *Instrumentation {
	return NewInstrumentationWithRegisterer(prometheus.NewRegistry())
}

func NewInstrumentationWithRegisterer(reg prometheus.Registerer) *Instrumentation {
	factory := promauto.With(reg)

	return &Instrumentation{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		CounterGroupFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "metrics",
			Name:      "group_failures_total",
			Help:      "Metric group computations that returned an error",
		}, []string{"group"}),
		CounterImports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "commits_total",
			Help:      "Text log commits by outcome",
		}, []string{"status"}),
		CounterCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Report cache hits",
		}),
		CounterCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Report cache misses",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		HistGroupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "metrics",
			Name:      "group_duration_seconds",
			Help:      "Time spent computing one metric group",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"group"}),
	}
}

// ObserveGroup records one metric group computation. Its signature matches
// the metrics engine observer.
func (i *Instrumentation) ObserveGroup(group string, elapsed time.Duration, err error) {
	i.HistGroupDuration.WithLabelValues(group).Observe(elapsed.Seconds())
	if err != nil {
		i.CounterGroupFailures.WithLabelValues(group).Inc()
	}
}

// ObserveImport counts a commit outcome.
func (i *Instrumentation) ObserveImport(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	i.CounterImports.WithLabelValues(status).Inc()
}
