package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveScheduled("Limpieza Facial")
	m.ObserveTransition("scheduled", "confirmed")
	m.ObserveRejected("invalid_window")
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveScheduled("x")
	m.ObserveTransition("a", "b")
	m.ObserveRejected("r")
}
