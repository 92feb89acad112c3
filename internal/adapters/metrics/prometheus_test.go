package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

var _ ports.Metrics = (*PrometheusMetrics)(nil)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.PollCreated()
	m.PollCreated()
	m.PollRejected("missing_title")
	m.ResponseAccepted()
	m.ResponseRejected("invalid_answer")
	m.ResponseRejected("invalid_answer")
	m.ResultsComputed("live", 3, 2*time.Millisecond)
	m.ResultsComputed("snapshot", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pollsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pollsRejected.WithLabelValues("missing_title")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.responsesAccepted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.responsesRejected.WithLabelValues("invalid_answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resultsComputed.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resultsComputed.WithLabelValues("snapshot")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func TestNewPrometheusMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetrics(prometheus.NewRegistry())
		NewPrometheusMetrics(prometheus.NewRegistry())
	})
}
