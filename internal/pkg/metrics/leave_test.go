package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveMetrics_Registrations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeaveMetrics(reg)

	m.ObserveRegistration(OutcomeRegistered)
	m.ObserveRegistration(OutcomeRegistered)
	m.ObserveRegistration(OutcomeAppendFail)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeRegistered)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeAppendFail)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.registrations.WithLabelValues(OutcomeInvalid)))
}

func TestLeaveMetrics_Loads(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeaveMetrics(reg)

	m.ObserveLoad(TableUsage, time.Now(), nil)
	m.ObserveLoad(TableLogs, time.Now(), errors.New("timeout"))

	count, err := testutil.GatherAndCount(reg, "leave_dashboard_store_load_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLeaveMetrics_NilIsNoop(t *testing.T) {
	var m *LeaveMetrics
	assert.NotPanics(t, func() {
		m.ObserveRegistration(OutcomeRegistered)
		m.ObserveLoad(TableUsage, time.Now(), nil)
	})
}
