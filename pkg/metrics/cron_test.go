package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("order-ttl")
	m.IncSuccess("order-ttl")
	m.IncFailure("order-ttl")
	m.ObserveDuration("order-ttl", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("order-ttl")); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("order-ttl")); got != 1 {
		t.Errorf("failure count = %v, want 1", got)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *CronJobMetrics
	m.IncSuccess("noop")
	m.IncFailure("noop")
	m.ObserveDuration("noop", time.Second)

	empty := NewCronJobMetrics(nil)
	empty.IncSuccess("")
	empty.ObserveDuration("", 0)
}
