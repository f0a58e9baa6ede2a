package booking

import (
	"context"
	"sync"
	"time"

	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"
	"tourbook/services/provider"
	"tourbook/services/telemetry"
)

func testTour() models.Tour {
	weekly := make(map[string]models.DayWindow, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		weekly[day] = models.DayWindow{Start: "09:00", End: "17:00"}
	}
	return models.Tour{
		ID:           "old-town-walk",
		Name:         "Old Town Walking Tour",
		DurationMin:  120,
		MaxGroupSize: 12,
		BasePrice:    45,
		Currency:     "EUR",
		DiscountTiers: []models.DiscountTier{
			{MinGroupSize: 4, PercentOff: 10},
			{MinGroupSize: 8, PercentOff: 15},
		},
		Weekly: weekly,
	}
}

type recordedRefund struct {
	PaymentRef string
	Amount     float64
}

type fakeRefunds struct {
	mu      sync.Mutex
	refunds []recordedRefund
}

func (f *fakeRefunds) Refund(_ context.Context, paymentRef string, amount float64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, recordedRefund{PaymentRef: paymentRef, Amount: amount})
	return nil
}

func newTestService(tours ...models.Tour) (*DefaultService, *provider.MemoryAdapter, *telemetry.Monitor) {
	if len(tours) == 0 {
		tours = []models.Tour{testTour()}
	}
	repo := tourRepo.NewMemoryTourRepo(tours)
	adapter := provider.NewMemoryAdapter(repo)
	monitor := telemetry.NewMonitor(100, telemetry.DefaultThresholds())
	svc := &DefaultService{
		Tours:           repo,
		Provider:        adapter,
		Monitor:         monitor,
		Refunds:         &fakeRefunds{},
		ProviderTimeout: time.Second,
		HorizonDays:     30,
	}
	return svc, adapter, monitor
}

func consentedSession() *models.VisitorSession {
	return &models.VisitorSession{
		ID:         "test-session",
		CSRFSecret: "secret",
		Consent:    map[string]bool{models.ConsentContract: true},
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

// futureDate picks a date comfortably in the future; the test tour runs
// every day so any date works.
func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func validRequest(groupSize int, total float64) models.BookingRequest {
	return models.BookingRequest{
		TourID:    "old-town-walk",
		Date:      futureDate(),
		StartTime: "11:00",
		GroupSize: groupSize,
		Customer: models.Customer{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
		TotalPrice: total,
	}
}
