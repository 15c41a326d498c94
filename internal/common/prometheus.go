package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	EngagementToggleTotal      = "engagement_toggles_total"
	CounterUpdateFailureTotal  = "counter_update_failures_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		EngagementToggleTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EngagementToggleTotal,
			Help: "Count of like toggles by target kind and resulting action",
		}, []string{"kind", "action"}),
		CounterUpdateFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CounterUpdateFailureTotal,
			Help: "Count of denormalized counter updates which failed after the primary write",
		}, []string{"entity"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)

func IncCounter(name string, labels ...string) {
	if counter, ok := PromCounters[name]; ok {
		counter.WithLabelValues(labels...).Inc()
	}
}
