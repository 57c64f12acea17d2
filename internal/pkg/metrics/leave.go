package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeRegistered = "registered"
	OutcomeInvalid    = "invalid"
	OutcomeAmbiguous  = "ambiguous"
	OutcomeStoreError = "store_error"
	OutcomeAppendFail = "append_failed"
)

const (
	TableUsage = "usage"
	TableLogs  = "logs"
)

// LeaveMetrics records registration outcomes and store round trips.
// A nil *LeaveMetrics is valid and records nothing.
type LeaveMetrics struct {
	registrations *prometheus.CounterVec
	storeLoads    *prometheus.HistogramVec
}

func NewLeaveMetrics(reg prometheus.Registerer) *LeaveMetrics {
	m := &LeaveMetrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leave_dashboard",
			Name:      "registrations_total",
			Help:      "Leave registrations by outcome.",
		}, []string{"outcome"}),
		storeLoads: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leave_dashboard",
			Name:      "store_load_duration_seconds",
			Help:      "Time spent loading a table from the leave store.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"table", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.registrations, m.storeLoads)
	}
	return m
}

func (m *LeaveMetrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *LeaveMetrics) ObserveLoad(table string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeLoads.WithLabelValues(table, result).Observe(time.Since(started).Seconds())
}
