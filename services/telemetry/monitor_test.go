package telemetry

import (
	"testing"
	"time"

	"tourbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func success() models.MetricEvent {
	return models.MetricEvent{Type: models.EventBookingCreated, Duration: 10 * time.Millisecond}
}

func failure() models.MetricEvent {
	return models.MetricEvent{Type: models.EventBookingFailed, Duration: 10 * time.Millisecond, Error: "backend timeout"}
}

func record(m *Monitor, successes, failures int) {
	for i := 0; i < successes; i++ {
		m.Record(success())
	}
	for i := 0; i < failures; i++ {
		m.Record(failure())
	}
}

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	record(m, 3, 2)
	m.Record(models.MetricEvent{Type: models.EventAvailabilityChecked})
	m.Record(models.MetricEvent{Type: models.EventBookingCancelled})

	snap := m.Snapshot()
	assert.Equal(t, int64(5), snap.Counters.Attempts)
	assert.Equal(t, int64(3), snap.Counters.Successes)
	assert.Equal(t, int64(2), snap.Counters.Failures)
	assert.Equal(t, int64(1), snap.Counters.AvailabilityChecks)
	assert.Equal(t, int64(1), snap.Counters.Cancellations)
	assert.Equal(t, 8, snap.EventCount)
}

func TestMonitorHealth(t *testing.T) {
	t.Run("five percent errors stays healthy", func(t *testing.T) {
		m := NewMonitor(100, DefaultThresholds())
		record(m, 19, 1)
		assert.Equal(t, Healthy, m.Health())
	})

	t.Run("thirty percent errors degrades", func(t *testing.T) {
		m := NewMonitor(100, DefaultThresholds())
		record(m, 7, 3)
		assert.Equal(t, Degraded, m.Health())
	})

	t.Run("sixty percent errors is unhealthy", func(t *testing.T) {
		m := NewMonitor(100, DefaultThresholds())
		record(m, 4, 6)
		assert.Equal(t, Unhealthy, m.Health())
	})

	t.Run("slow averages degrade even with zero errors", func(t *testing.T) {
		m := NewMonitor(100, DefaultThresholds())
		m.Record(models.MetricEvent{Type: models.EventBookingCreated, Duration: 3 * time.Second})
		assert.Equal(t, Degraded, m.Health())
	})

	t.Run("worse classification wins", func(t *testing.T) {
		m := NewMonitor(100, DefaultThresholds())
		m.Record(models.MetricEvent{Type: models.EventBookingFailed, Duration: 3 * time.Second, Error: "boom"})
		assert.Equal(t, Unhealthy, m.Health(), "100% errors beats merely slow")
	})
}

func TestMonitorErrorRateUsesTrailingWindow(t *testing.T) {
	m := NewMonitor(4, DefaultThresholds())
	record(m, 0, 4)
	assert.Equal(t, 1.0, m.ErrorRate())

	// Four successes push the failures out of the ring entirely.
	record(m, 4, 0)
	assert.Equal(t, 0.0, m.ErrorRate())
}

func TestMonitorCapacityConflictsAreNotFailures(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	for i := 0; i < 10; i++ {
		m.Record(models.MetricEvent{
			Type:    models.EventBookingFailed,
			Payload: map[string]interface{}{"reason": "capacity"},
		})
	}

	snap := m.Snapshot()
	assert.Equal(t, int64(10), snap.Counters.Failures, "still counted as failed attempts")
	assert.Equal(t, 0.0, snap.ErrorRate, "but never toward the error rate")
	assert.Equal(t, 0, snap.ConsecutiveFailures)
	assert.Equal(t, Healthy, snap.Health)
}

func TestMonitorConsecutiveFailuresResetOnSuccess(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	record(m, 0, 3)
	assert.Equal(t, 3, m.Snapshot().ConsecutiveFailures)

	m.Record(success())
	assert.Equal(t, 0, m.Snapshot().ConsecutiveFailures)
}

func TestMonitorIncrementalAverage(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	m.Record(models.MetricEvent{Type: models.EventBookingCreated, Duration: 100 * time.Millisecond})
	m.Record(models.MetricEvent{Type: models.EventBookingCreated, Duration: 300 * time.Millisecond})

	assert.InDelta(t, 200, m.Snapshot().AvgDurationMS, 0.01)
}

func TestMonitorEvents(t *testing.T) {
	m := NewMonitor(3, DefaultThresholds())
	for i := 1; i <= 5; i++ {
		m.Record(models.MetricEvent{
			Type:    models.EventAvailabilityChecked,
			Payload: map[string]interface{}{"seq": i},
		})
	}

	events := m.Events(2)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Payload["seq"])
	assert.Equal(t, 5, events[1].Payload["seq"])

	all := m.Events(0)
	assert.Len(t, all, 3, "ring keeps only the last three")
}
