package telemetry

import (
	"sync"
	"time"

	"tourbook/models"
)

type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Degraded  HealthStatus = "degraded"
	Unhealthy HealthStatus = "unhealthy"
)

// Counters are running totals updated incrementally per event.
type Counters struct {
	Attempts           int64 `json:"attempts"`
	Successes          int64 `json:"successes"`
	Failures           int64 `json:"failures"`
	AvailabilityChecks int64 `json:"availabilityChecks"`
	Cancellations      int64 `json:"cancellations"`
}

// HealthThresholds classify the trailing error rate and the duration
// average independently; the worse classification wins.
type HealthThresholds struct {
	DegradedErrorRate  float64
	UnhealthyErrorRate float64
	SlowAvgMS          float64
	VerySlowAvgMS      float64
}

func DefaultThresholds() HealthThresholds {
	return HealthThresholds{
		DegradedErrorRate:  0.2,
		UnhealthyErrorRate: 0.5,
		SlowAvgMS:          2000,
		VerySlowAvgMS:      5000,
	}
}

// Snapshot is a point-in-time read of the monitor.
type Snapshot struct {
	Counters            Counters     `json:"counters"`
	AvgDurationMS       float64      `json:"avgDurationMs"`
	ErrorRate           float64      `json:"errorRate"`
	ConsecutiveFailures int          `json:"consecutiveFailures"`
	EventCount          int          `json:"eventCount"`
	Health              HealthStatus `json:"health"`
}

// Monitor keeps an append-only ring of the last N events plus derived
// counters. It is an injected per-process service with internally
// synchronized state, so tests instantiate isolated instances instead of
// sharing a process-wide singleton.
type Monitor struct {
	mu         sync.Mutex
	ring       []models.MetricEvent
	next       int
	filled     bool
	counters   Counters
	avgDurMS   float64
	durSamples int64
	consec     int
	thresholds HealthThresholds
	listeners  []func()
}

func NewMonitor(capacity int, thresholds HealthThresholds) *Monitor {
	if capacity <= 0 {
		capacity = 500
	}
	return &Monitor{
		ring:       make([]models.MetricEvent, capacity),
		thresholds: thresholds,
	}
}

// AddListener registers a callback invoked after each recorded event,
// outside the monitor's lock. Used to hook alert evaluation.
func (m *Monitor) AddListener(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Record appends one event and updates the derived state incrementally;
// history is never recomputed.
func (m *Monitor) Record(ev models.MetricEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	m.mu.Lock()
	m.ring[m.next] = ev
	m.next++
	if m.next == len(m.ring) {
		m.next = 0
		m.filled = true
	}

	switch ev.Type {
	case models.EventBookingCreated:
		m.counters.Attempts++
		m.counters.Successes++
	case models.EventBookingFailed:
		m.counters.Attempts++
		m.counters.Failures++
	case models.EventAvailabilityChecked:
		m.counters.AvailabilityChecks++
	case models.EventBookingCancelled:
		m.counters.Cancellations++
	}

	if ev.Duration > 0 {
		m.durSamples++
		ms := float64(ev.Duration.Milliseconds())
		m.avgDurMS += (ms - m.avgDurMS) / float64(m.durSamples)
	}

	if isFailure(ev) {
		m.consec++
	} else {
		m.consec = 0
	}

	listeners := m.listeners
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// isFailure marks events that count toward the alerting error rate.
// Expected rejections (capacity conflicts) carry no Error and a reason
// payload instead, so they stay out.
func isFailure(ev models.MetricEvent) bool {
	return ev.Error != ""
}

// ErrorRate is the failing share of the trailing event window.
func (m *Monitor) ErrorRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorRateLocked()
}

func (m *Monitor) errorRateLocked() float64 {
	total := m.next
	if m.filled {
		total = len(m.ring)
	}
	if total == 0 {
		return 0
	}
	failures := 0
	for i := 0; i < total; i++ {
		if isFailure(m.ring[i]) {
			failures++
		}
	}
	return float64(failures) / float64(total)
}

// Health classifies the trailing error rate and the duration average
// against two independent threshold pairs; the worse result wins.
func (m *Monitor) Health() HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.healthLocked()
}

func (m *Monitor) healthLocked() HealthStatus {
	status := Healthy

	rate := m.errorRateLocked()
	if rate >= m.thresholds.UnhealthyErrorRate {
		status = Unhealthy
	} else if rate >= m.thresholds.DegradedErrorRate {
		status = Degraded
	}

	if m.avgDurMS >= m.thresholds.VerySlowAvgMS {
		status = Unhealthy
	} else if m.avgDurMS >= m.thresholds.SlowAvgMS && status == Healthy {
		status = Degraded
	}
	return status
}

// Snapshot returns a consistent read of counters and health.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.next
	if m.filled {
		count = len(m.ring)
	}
	return Snapshot{
		Counters:            m.counters,
		AvgDurationMS:       m.avgDurMS,
		ErrorRate:           m.errorRateLocked(),
		ConsecutiveFailures: m.consec,
		EventCount:          count,
		Health:              m.healthLocked(),
	}
}

// Events returns up to n most recent events, newest last.
func (m *Monitor) Events(n int) []models.MetricEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.next
	if m.filled {
		total = len(m.ring)
	}
	if n <= 0 || n > total {
		n = total
	}
	out := make([]models.MetricEvent, 0, n)
	for i := total - n; i < total; i++ {
		idx := i
		if m.filled {
			idx = (m.next + i) % len(m.ring)
		}
		out = append(out, m.ring[idx])
	}
	return out
}
