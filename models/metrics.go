package models

import "time"

type MetricEventType string

const (
	EventBookingCreated      MetricEventType = "booking_created"
	EventBookingFailed       MetricEventType = "booking_failed"
	EventAvailabilityChecked MetricEventType = "availability_checked"
	EventBookingCancelled    MetricEventType = "booking_cancelled"
)

// MetricEvent is one append-only telemetry record. Error is set only for
// genuine provider-side failures; expected rejections (capacity
// conflicts) carry a reason in Payload instead so they never count
// toward the alerting error rate.
type MetricEvent struct {
	Type      MetricEventType        `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Error     string                 `json:"error,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Alert is a threshold breach notification.
type Alert struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Value   float64   `json:"value"`
	FiredAt time.Time `json:"firedAt"`
}
