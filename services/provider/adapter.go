package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/config"
	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"
)

// Sentinel errors adapters translate vendor responses into. Everything
// else returned from a mutating call is a genuine provider error.
var (
	// ErrSlotFull means the backend rejected the creation because the
	// slot filled between check and submit. Expected under concurrency,
	// never alert-worthy.
	ErrSlotFull = errors.New("provider: slot full")
	// ErrNotFound means the backend has no booking with that ID.
	ErrNotFound = errors.New("provider: booking not found")
	// ErrAlreadyCancelled means the booking was cancelled before this
	// call. The cancel did not transition state, so callers must not
	// issue a refund on its strength.
	ErrAlreadyCancelled = errors.New("provider: booking already cancelled")
)

// Adapter normalizes one external scheduling backend. The rest of the
// system is polymorphic over this set and must not know which variant
// is active.
//
// CheckAvailability must not mutate state and must not surface backend
// failures as errors: a failed backend yields Available=false with empty
// slots and Degraded set, so callers degrade gracefully.
//
// CreateBooking is a single logical attempt. Adapters never retry
// internally; a timed-out call is a failure for the caller to handle.
type Adapter interface {
	CheckAvailability(ctx context.Context, tourID, date string) models.Availability
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) error
}

// NewFromConfig selects the active adapter variant at startup.
func NewFromConfig(tours tourRepo.Repository) (Adapter, error) {
	timeout := time.Duration(config.AppConfig.ProviderTimeoutMS) * time.Millisecond
	switch config.AppConfig.ProviderVariant {
	case "", "memory":
		return NewMemoryAdapter(tours), nil
	case "rest":
		if config.AppConfig.ProviderBaseURL == "" {
			return nil, fmt.Errorf("rest provider variant requires PROVIDER_BASE_URL")
		}
		return NewRESTAdapter(config.AppConfig.ProviderBaseURL, config.AppConfig.ProviderAPIKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider variant: %q", config.AppConfig.ProviderVariant)
	}
}
