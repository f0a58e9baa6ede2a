package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Customer is the contact snapshot stored on a booking.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingRequest is a transient inbound booking attempt. TotalPrice is
// the client-computed total and must match the server-side calculation
// exactly before the request reaches the provider.
type BookingRequest struct {
	TourID         string   `json:"tourId"`
	Date           string   `json:"date"`
	StartTime      string   `json:"startTime"`
	GroupSize      int      `json:"groupSize"`
	Customer       Customer `json:"customer"`
	SpecialRequest string   `json:"specialRequest,omitempty"`
	TotalPrice     float64  `json:"totalPrice"`
}

// Booking is owned by the provider backend; this service holds no
// authoritative copy and only decorates it with a confirmation code.
type Booking struct {
	ID               string        `json:"id"`
	TourID           string        `json:"tourId"`
	Date             string        `json:"date"`
	StartTime        string        `json:"startTime"`
	GroupSize        int           `json:"groupSize"`
	TotalPrice       float64       `json:"totalPrice"`
	Currency         string        `json:"currency"`
	Status           BookingStatus `json:"status"`
	Customer         Customer      `json:"customer"`
	PaymentRef       string        `json:"-"`
	ConfirmationCode string        `json:"confirmationCode,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// StartAt resolves the booking's date and start time to a UTC instant.
func (b *Booking) StartAt() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", b.Date+" "+b.StartTime)
}

// Refund describes the outcome of a successful cancellation.
type Refund struct {
	Amount         float64 `json:"amount"`
	Percent        int     `json:"percent"`
	Currency       string  `json:"currency"`
	ProcessingTime string  `json:"processingTime"`
}

// CancellationPreview is the side-effect-free answer to "what would I
// get back if I cancelled now".
type CancellationPreview struct {
	CanCancel       bool    `json:"canCancel"`
	HoursUntilStart float64 `json:"hoursUntilStart"`
	RefundPercent   int     `json:"refundPercent"`
	RefundAmount    float64 `json:"refundAmount"`
	Currency        string  `json:"currency"`
	Reason          string  `json:"reason,omitempty"`
}
