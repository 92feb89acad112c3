// Package metrics exports poll activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics counts poll and response traffic and times results
// aggregation.
type PrometheusMetrics struct {
	pollsCreated       prometheus.Counter
	pollsRejected      *prometheus.CounterVec
	responsesAccepted  prometheus.Counter
	responsesRejected  *prometheus.CounterVec
	resultsComputed    *prometheus.CounterVec
	aggregationLatency *prometheus.HistogramVec
	aggregatedSize     prometheus.Histogram
}

// NewPrometheusMetrics registers the collectors on reg. Pass
// prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		pollsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "polls_created_total",
			Help: "Polls accepted and stored.",
		}),
		pollsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polls_rejected_total",
			Help: "Poll definitions rejected by validation.",
		}, []string{"reason"}),
		responsesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "poll_responses_accepted_total",
			Help: "Responses accepted and stored.",
		}),
		responsesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poll_responses_rejected_total",
			Help: "Responses rejected by validation.",
		}, []string{"reason"}),
		resultsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poll_results_computed_total",
			Help: "Result summaries computed, by source.",
		}, []string{"source"}),
		aggregationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poll_results_aggregation_duration_seconds",
			Help:    "Time spent folding responses into a summary.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		aggregatedSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "poll_results_aggregated_responses",
			Help:    "Responses folded per summary.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

func (m *PrometheusMetrics) PollCreated() {
	m.pollsCreated.Inc()
}

func (m *PrometheusMetrics) PollRejected(reason string) {
	m.pollsRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) ResponseAccepted() {
	m.responsesAccepted.Inc()
}

func (m *PrometheusMetrics) ResponseRejected(reason string) {
	m.responsesRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) ResultsComputed(source string, responses int, elapsed time.Duration) {
	m.resultsComputed.WithLabelValues(source).Inc()
	m.aggregationLatency.WithLabelValues(source).Observe(elapsed.Seconds())
	m.aggregatedSize.Observe(float64(responses))
}
