package telemetry

import (
	"sync"
	"testing"
	"time"

	"tourbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (n *recordingNotifier) Notify(alert models.Alert) {
	n.mu.Lock()
	n.alerts = append(n.alerts, alert)
	n.mu.Unlock()
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.alerts))
	for _, a := range n.alerts {
		out = append(out, a.Kind)
	}
	return out
}

func testThresholds() AlertThresholds {
	return AlertThresholds{ErrorRate: 0.5, AvgDurationMS: 5000, ConsecutiveFailures: 5}
}

func TestDispatcherFiresOnBreach(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, testThresholds(), 15*time.Minute, notifier)

	record(m, 2, 8) // 80% error rate, unhealthy, 8 failures in a row
	d.Evaluate()

	kinds := notifier.kinds()
	assert.Contains(t, kinds, "error_rate")
	assert.Contains(t, kinds, "unhealthy")
	assert.Contains(t, kinds, "consecutive_failures")
	assert.NotContains(t, kinds, "slow_operations")
}

func TestDispatcherConsecutiveFailures(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, AlertThresholds{ConsecutiveFailures: 5}, 15*time.Minute, notifier)

	record(m, 0, 5)
	d.Evaluate()

	require.NotEmpty(t, notifier.kinds())
	assert.Contains(t, notifier.kinds(), "consecutive_failures")
}

func TestDispatcherCooldownDeduplicates(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, testThresholds(), 15*time.Minute, notifier)

	record(m, 0, 10)
	d.Evaluate()
	first := len(notifier.kinds())
	require.Greater(t, first, 0)

	// Still breaching, but inside the cooldown: no second burst.
	record(m, 0, 5)
	d.Evaluate()
	d.Evaluate()
	assert.Equal(t, first, len(notifier.kinds()))
}

func TestDispatcherCooldownExpires(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, testThresholds(), 20*time.Millisecond, notifier)

	record(m, 0, 10)
	d.Evaluate()
	first := len(notifier.kinds())
	require.Greater(t, first, 0)

	time.Sleep(30 * time.Millisecond)
	d.Evaluate()
	assert.Greater(t, len(notifier.kinds()), first)
}

func TestDispatcherSilentWhenHealthy(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, testThresholds(), 15*time.Minute, notifier)

	record(m, 20, 0)
	d.Evaluate()
	assert.Empty(t, notifier.kinds())
}

func TestDispatcherAsMonitorListener(t *testing.T) {
	m := NewMonitor(100, DefaultThresholds())
	notifier := &recordingNotifier{}
	d := NewDispatcher(m, testThresholds(), 15*time.Minute, notifier)
	m.AddListener(d.Evaluate)

	// Each record triggers evaluation; the cooldown keeps it to one burst.
	record(m, 0, 10)
	kinds := notifier.kinds()
	assert.Contains(t, kinds, "error_rate")
}
