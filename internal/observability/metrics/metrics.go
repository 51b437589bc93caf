package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters for appointment scheduling flows.
type SchedulingMetrics struct {
	scheduledTotal     *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		scheduledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "scheduling",
			Name:      "scheduled_total",
			Help:      "Appointments accepted by the scheduler",
		}, []string{"service"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "scheduling",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions applied",
		}, []string{"from", "to"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "scheduling",
			Name:      "rejected_total",
			Help:      "Scheduling operations rejected by validation",
		}, []string{"reason"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.scheduledTotal, m.statusTransitions, m.validationFailures)
	return m
}

func (m *SchedulingMetrics) ObserveScheduled(service string) {
	if m == nil {
		return
	}
	m.scheduledTotal.WithLabelValues(service).Inc()
}

func (m *SchedulingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *SchedulingMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(reason).Inc()
}
