package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tourbook/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier delivers one alert. Implementations must not block the
// booking path for long.
type Notifier interface {
	Notify(alert models.Alert)
}

// LogNotifier writes alerts to the structured log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Notify(alert models.Alert) {
	n.Logger.Error("ALERT",
		zap.String("kind", alert.Kind),
		zap.String("message", alert.Message),
		zap.Float64("value", alert.Value),
	)
}

const TypeAlertDispatch = "alert:dispatch"

// NewAlertTask builds the asynq task carrying an alert to the delivery
// worker.
func NewAlertTask(alert models.Alert) (*asynq.Task, error) {
	b, err := json.Marshal(alert)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAlertDispatch, b), nil
}

// AsynqNotifier enqueues alerts for out-of-process delivery (email,
// chat, pager) so notification latency never touches request handling.
type AsynqNotifier struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func (n *AsynqNotifier) Notify(alert models.Alert) {
	task, err := NewAlertTask(alert)
	if err != nil {
		n.Logger.Error("failed to build alert task", zap.Error(err))
		return
	}
	if _, err := n.Client.Enqueue(task); err != nil {
		n.Logger.Error("failed to enqueue alert", zap.Error(err))
	}
}

// AlertThresholds trigger dispatch; each is checked independently.
type AlertThresholds struct {
	ErrorRate           float64
	AvgDurationMS       float64
	ConsecutiveFailures int
}

// Dispatcher evaluates the monitor after events and fires notifications
// on threshold breaches. One cooldown timer is shared across all alert
// kinds: a storm of simultaneous breaches produces a single burst.
type Dispatcher struct {
	Monitor    *Monitor
	Notifiers  []Notifier
	Thresholds AlertThresholds
	Cooldown   time.Duration

	mu        sync.Mutex
	lastFired time.Time
}

func NewDispatcher(monitor *Monitor, thresholds AlertThresholds, cooldown time.Duration, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		Monitor:    monitor,
		Notifiers:  notifiers,
		Thresholds: thresholds,
		Cooldown:   cooldown,
	}
}

// Evaluate collects current breaches and dispatches them as one burst,
// deduplicated by the shared cooldown.
func (d *Dispatcher) Evaluate() {
	snap := d.Monitor.Snapshot()
	now := time.Now()

	var alerts []models.Alert
	if d.Thresholds.ErrorRate > 0 && snap.ErrorRate >= d.Thresholds.ErrorRate {
		alerts = append(alerts, models.Alert{
			Kind:    "error_rate",
			Message: fmt.Sprintf("error rate %.0f%% over trailing window", snap.ErrorRate*100),
			Value:   snap.ErrorRate,
			FiredAt: now,
		})
	}
	if d.Thresholds.AvgDurationMS > 0 && snap.AvgDurationMS >= d.Thresholds.AvgDurationMS {
		alerts = append(alerts, models.Alert{
			Kind:    "slow_operations",
			Message: fmt.Sprintf("average operation duration %.0fms", snap.AvgDurationMS),
			Value:   snap.AvgDurationMS,
			FiredAt: now,
		})
	}
	if d.Thresholds.ConsecutiveFailures > 0 && snap.ConsecutiveFailures >= d.Thresholds.ConsecutiveFailures {
		alerts = append(alerts, models.Alert{
			Kind:    "consecutive_failures",
			Message: fmt.Sprintf("%d consecutive failures", snap.ConsecutiveFailures),
			Value:   float64(snap.ConsecutiveFailures),
			FiredAt: now,
		})
	}
	if snap.Health == Unhealthy {
		alerts = append(alerts, models.Alert{
			Kind:    "unhealthy",
			Message: "booking core classified unhealthy",
			Value:   snap.ErrorRate,
			FiredAt: now,
		})
	}
	if len(alerts) == 0 {
		return
	}

	d.mu.Lock()
	if now.Sub(d.lastFired) < d.Cooldown {
		d.mu.Unlock()
		return
	}
	d.lastFired = now
	d.mu.Unlock()

	for _, alert := range alerts {
		for _, n := range d.Notifiers {
			n.Notify(alert)
		}
	}
}
