package booking

import (
	"context"
	"time"

	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"
	"tourbook/services/payment"
	"tourbook/services/provider"
	"tourbook/services/telemetry"
)

// Service is the booking orchestration surface handlers call into.
type Service interface {
	CheckAvailability(ctx context.Context, tourID, date string) (models.Availability, error)
	CheckRange(ctx context.Context, tourID, startDate, endDate string) (map[string]models.DateAvailability, error)
	CreateBooking(ctx context.Context, req models.BookingRequest, session *models.VisitorSession) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id, email string) (*models.Refund, error)
	PreviewCancellation(ctx context.Context, id, email string) (*models.CancellationPreview, error)
}

// DefaultService implements Service. All collaborators are injected so
// tests can build isolated instances.
type DefaultService struct {
	Tours           tourRepo.Repository
	Provider        provider.Adapter
	Monitor         *telemetry.Monitor
	Refunds         payment.RefundProcessor
	ProviderTimeout time.Duration
	HorizonDays     int
}
