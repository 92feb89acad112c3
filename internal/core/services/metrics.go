package services

import (
	"time"

	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type nopMetrics struct{}

func (nopMetrics) PollCreated() {}

func (nopMetrics) PollRejected(string) {}

func (nopMetrics) ResponseAccepted() {}

func (nopMetrics) ResponseRejected(string) {}

func (nopMetrics) ResultsComputed(string, int, time.Duration) {}

func metricsOrNop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
