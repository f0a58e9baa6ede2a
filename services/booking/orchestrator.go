package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"
	"tourbook/services/provider"
	"tourbook/utils"

	"go.uber.org/zap"
)

// CheckAvailability validates the query, asks the provider and attaches
// server-side pricing. Business-rule rejections come back as a
// non-available result with a reason, not an error.
func (s *DefaultService) CheckAvailability(ctx context.Context, tourID, date string) (models.Availability, error) {
	start := time.Now()

	tour, err := s.Tours.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return models.Availability{Available: false, Reason: "unknown tour"}, nil
		}
		return models.Availability{}, fmt.Errorf("failed to load tour: %w", err)
	}

	if check := CheckDate(date, time.Now()); !check.Valid {
		return models.Availability{Available: false, Reason: check.Error}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	defer cancel()
	result := s.Provider.CheckAvailability(callCtx, tourID, date)
	result.MaxGroupSize = tour.MaxGroupSize
	result.Pricing = BuildPricingInfo(tour)

	ev := models.MetricEvent{
		Type:     models.EventAvailabilityChecked,
		Duration: time.Since(start),
		Payload:  map[string]interface{}{"tourId": tourID, "date": date},
	}
	if result.Degraded {
		ev.Error = result.Reason
	}
	s.Monitor.Record(ev)

	return result, nil
}

// CheckRange answers a bulk availability query, one entry per date.
// Range length is bounded by the booking horizon.
func (s *DefaultService) CheckRange(ctx context.Context, tourID, startDate, endDate string) (map[string]models.DateAvailability, error) {
	if check := CheckDateRange(startDate, endDate, time.Now(), s.HorizonDays); !check.Valid {
		return nil, NewValidationError(check.Error)
	}
	if _, err := s.Tours.GetByID(ctx, tourID); err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return nil, NewValidationError("unknown tour")
		}
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}

	first, _ := time.Parse("2006-01-02", startDate)
	last, _ := time.Parse("2006-01-02", endDate)
	now := time.Now()

	out := make(map[string]models.DateAvailability)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		if check := CheckDate(dateStr, now); !check.Valid {
			out[dateStr] = models.DateAvailability{Available: false, Reason: check.Error}
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
		result := s.Provider.CheckAvailability(callCtx, tourID, dateStr)
		cancel()
		if !result.Available {
			out[dateStr] = models.DateAvailability{Available: false, Reason: result.Reason}
			continue
		}
		out[dateStr] = models.DateAvailability{Available: true, SlotsCount: len(result.Slots)}
	}
	return out, nil
}

// CreateBooking runs the guarded creation workflow: consent, business
// validation, a fresh availability re-check, then a single submission.
// Guard and validation rejections exit before any provider call and are
// never recorded as telemetry failures; they are expected traffic.
func (s *DefaultService) CreateBooking(ctx context.Context, req models.BookingRequest, session *models.VisitorSession) (*models.Booking, error) {
	logger := utils.GetLogger()
	start := time.Now()

	if !session.HasConsent(models.ConsentContract) {
		return nil, NewGuardError("consent_required", "booking requires contract-necessary consent")
	}

	tour, err := s.Tours.GetByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrNotFound) {
			return nil, NewValidationError("unknown tour")
		}
		return nil, fmt.Errorf("failed to load tour: %w", err)
	}

	if details := ValidateRequest(tour, req, time.Now()); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	// Re-read close to write: the provider offers no reservation
	// primitive, so the only available guarantee is minimizing the
	// window between this check and the submission below.
	checkCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	availability := s.Provider.CheckAvailability(checkCtx, req.TourID, req.Date)
	cancel()

	slot, ok := findSlot(availability, req.StartTime)
	if !availability.Available || !ok || slot.AvailableSpots < req.GroupSize {
		s.recordFailure(start, req, "capacity", "")
		return nil, &CapacityConflictError{Message: "slot no longer has enough spots"}
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	booking, err := s.Provider.CreateBooking(submitCtx, req)
	cancel()
	if err != nil {
		if errors.Is(err, provider.ErrSlotFull) {
			// The backend rejected the second create for the last spot.
			// Expected under concurrency, not a degradation signal.
			s.recordFailure(start, req, "capacity", "")
			return nil, &CapacityConflictError{Message: "slot filled before submission"}
		}
		s.recordFailure(start, req, "provider", err.Error())
		logger.Error("booking submission failed",
			zap.String("tourId", req.TourID), zap.String("date", req.Date), zap.Error(err))
		return nil, &ProviderError{Op: "createBooking", Err: err}
	}

	booking.ConfirmationCode = confirmationCode()

	s.Monitor.Record(models.MetricEvent{
		Type:     models.EventBookingCreated,
		Duration: time.Since(start),
		Payload: map[string]interface{}{
			"tourId":    req.TourID,
			"date":      req.Date,
			"groupSize": req.GroupSize,
		},
	})
	logger.Info("booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("tourId", req.TourID),
		zap.Int("groupSize", req.GroupSize))

	return booking, nil
}

// GetBooking fetches a booking for display or cancellation eligibility.
func (s *DefaultService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.ProviderTimeout)
	defer cancel()
	booking, err := s.Provider.GetBooking(callCtx, id)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, &ProviderError{Op: "getBooking", Err: err}
	}
	return booking, nil
}

func (s *DefaultService) recordFailure(start time.Time, req models.BookingRequest, reason, errMsg string) {
	s.Monitor.Record(models.MetricEvent{
		Type:     models.EventBookingFailed,
		Duration: time.Since(start),
		Error:    errMsg,
		Payload: map[string]interface{}{
			"reason": reason,
			"tourId": req.TourID,
			"date":   req.Date,
		},
	})
}

func findSlot(availability models.Availability, startTime string) (models.TimeSlot, bool) {
	for _, slot := range availability.Slots {
		if slot.StartTime == startTime {
			return slot, true
		}
	}
	return models.TimeSlot{}, false
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// confirmationCode mints a short human-readable code; the provider's
// booking ID stays the canonical reference.
func confirmationCode() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("TB-%d", time.Now().UnixNano()%100000000)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return "TB-" + string(b)
}
