package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourbook/models"
	"tourbook/services/provider"
	"tourbook/utils"

	"go.uber.org/zap"
)

// Refund tiers: hours before tour start mapped to a refund percentage.
// Below the final tier cancellation is refused outright.
const (
	fullRefundHours = 48.0
	halfRefundHours = 24.0
)

// ComputeRefund classifies a booking against the refund tiers at the
// given instant. Pure; the cancellation flow and the preview endpoint
// share it.
func ComputeRefund(booking *models.Booking, now time.Time) models.CancellationPreview {
	startAt, err := booking.StartAt()
	if err != nil {
		return models.CancellationPreview{CanCancel: false, Reason: "booking has an invalid start time"}
	}
	hours := startAt.Sub(now).Hours()

	preview := models.CancellationPreview{
		HoursUntilStart: hours,
		Currency:        booking.Currency,
	}
	switch {
	case hours >= fullRefundHours:
		preview.CanCancel = true
		preview.RefundPercent = 100
	case hours >= halfRefundHours:
		preview.CanCancel = true
		preview.RefundPercent = 50
	default:
		preview.CanCancel = false
		preview.Reason = "cancellation window has closed (less than 24 hours before start)"
		return preview
	}
	preview.RefundAmount = roundCents(booking.TotalPrice * float64(preview.RefundPercent) / 100)
	return preview
}

// PreviewCancellation answers the policy question without side effects.
func (s *DefaultService) PreviewCancellation(ctx context.Context, id, email string) (*models.CancellationPreview, error) {
	booking, err := s.fetchOwnedBooking(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, &ConflictError{Code: "already_cancelled", Message: "booking is already cancelled"}
	}
	preview := ComputeRefund(booking, time.Now())
	return &preview, nil
}

// CancelBooking fetches the booking, verifies ownership by contact
// email, applies the refund tiers, cancels with the provider and then
// executes the refund. The provider's cancel is the authority on the
// state transition: the pre-read status check is only a fast path, and
// a refund is built solely when the cancel call itself transitioned the
// booking. Racing cancellations therefore yield exactly one refund; the
// losers get the already-cancelled conflict.
func (s *DefaultService) CancelBooking(ctx context.Context, id, email string) (*models.Refund, error) {
	logger := utils.GetLogger()
	start := time.Now()

	booking, err := s.fetchOwnedBooking(ctx, id, email)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, &ConflictError{Code: "already_cancelled", Message: "booking is already cancelled"}
	}

	preview := ComputeRefund(booking, time.Now())
	if !preview.CanCancel {
		return nil, &ConflictError{Code: "window_closed", Message: preview.Reason}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	err = s.Provider.CancelBooking(callCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, provider.ErrAlreadyCancelled) {
			return nil, &ConflictError{Code: "already_cancelled", Message: "booking is already cancelled"}
		}
		if errors.Is(err, provider.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		s.Monitor.Record(models.MetricEvent{
			Type:     models.EventBookingFailed,
			Duration: time.Since(start),
			Error:    err.Error(),
			Payload:  map[string]interface{}{"reason": "provider", "op": "cancel", "bookingId": id},
		})
		return nil, &ProviderError{Op: "cancelBooking", Err: err}
	}

	refund := &models.Refund{
		Amount:         preview.RefundAmount,
		Percent:        preview.RefundPercent,
		Currency:       booking.Currency,
		ProcessingTime: "5-7 business days",
	}
	if booking.PaymentRef != "" && refund.Amount > 0 {
		if err := s.Refunds.Refund(ctx, booking.PaymentRef, refund.Amount, refund.Currency); err != nil {
			// The booking stays cancelled; the refund moves to a manual queue.
			logger.Error("refund execution failed",
				zap.String("bookingId", id), zap.Error(err))
			refund.ProcessingTime = "manual"
		}
	}

	s.Monitor.Record(models.MetricEvent{
		Type:     models.EventBookingCancelled,
		Duration: time.Since(start),
		Payload: map[string]interface{}{
			"bookingId":    id,
			"refundAmount": refund.Amount,
			"refundPct":    refund.Percent,
		},
	})
	logger.Info("booking cancelled",
		zap.String("bookingId", id),
		zap.Float64("refundAmount", refund.Amount))

	return refund, nil
}

// fetchOwnedBooking loads a booking and verifies the caller-supplied
// email matches the stored contact, case-insensitively.
func (s *DefaultService) fetchOwnedBooking(ctx context.Context, id, email string) (*models.Booking, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	defer cancel()
	booking, err := s.Provider.GetBooking(callCtx, id)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, &ProviderError{Op: "getBooking", Err: err}
	}
	if !strings.EqualFold(strings.TrimSpace(email), booking.Customer.Email) {
		return nil, NewGuardError("email_mismatch", "email does not match the booking contact")
	}
	return booking, nil
}
