package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"

	"github.com/google/uuid"
)

// MemoryAdapter is an in-process scheduling backend. It derives slots
// from the tour's weekly template minus booked usage and enforces
// capacity under a single mutex, so two racing creations for the last
// spot can never both succeed. Default variant; also the fake backend
// used by tests.
type MemoryAdapter struct {
	mu       sync.Mutex
	tours    tourRepo.Repository
	bookings map[string]*models.Booking
	usage    map[string]int // people booked per slot
	count    map[string]int // bookings per slot
}

func NewMemoryAdapter(tours tourRepo.Repository) *MemoryAdapter {
	return &MemoryAdapter{
		tours:    tours,
		bookings: make(map[string]*models.Booking),
		usage:    make(map[string]int),
		count:    make(map[string]int),
	}
}

func slotKey(tourID, date, start string) string {
	return tourID + "|" + date + "|" + start
}

func (a *MemoryAdapter) CheckAvailability(ctx context.Context, tourID, date string) models.Availability {
	tour, err := a.tours.GetByID(ctx, tourID)
	if err != nil {
		return models.Availability{Available: false, Reason: "unknown tour"}
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return models.Availability{Available: false, Reason: "invalid date"}
	}
	window, ok := tour.WindowFor(day)
	if !ok {
		return models.Availability{Available: false, Reason: "tour does not run on this day"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var slots []models.TimeSlot
	available := false
	for _, start := range slotStarts(window, tour.DurationMin) {
		remaining := a.remainingLocked(tour, date, start, window)
		if remaining > 0 {
			available = true
		}
		slots = append(slots, models.TimeSlot{
			TourID:         tourID,
			Date:           date,
			StartTime:      start,
			AvailableSpots: remaining,
			Price:          tour.BasePrice,
		})
	}
	return models.Availability{
		Available:    available,
		Slots:        slots,
		MaxGroupSize: tour.MaxGroupSize,
	}
}

func (a *MemoryAdapter) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	tour, err := a.tours.GetByID(ctx, req.TourID)
	if err != nil {
		return nil, fmt.Errorf("unknown tour %s: %w", req.TourID, err)
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", req.Date)
	}
	window, ok := tour.WindowFor(day)
	if !ok {
		return nil, ErrSlotFull
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.remainingLocked(tour, req.Date, req.StartTime, window) < req.GroupSize {
		return nil, ErrSlotFull
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		TourID:     req.TourID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		GroupSize:  req.GroupSize,
		TotalPrice: req.TotalPrice,
		Currency:   tour.Currency,
		Status:     models.BookingConfirmed,
		Customer:   req.Customer,
		CreatedAt:  time.Now(),
	}
	key := slotKey(req.TourID, req.Date, req.StartTime)
	a.bookings[booking.ID] = booking
	a.usage[key] += req.GroupSize
	a.count[key]++

	copied := *booking
	return &copied, nil
}

func (a *MemoryAdapter) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	booking, ok := a.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (a *MemoryAdapter) CancelBooking(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	booking, ok := a.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if booking.Status == models.BookingCancelled {
		return ErrAlreadyCancelled
	}
	booking.Status = models.BookingCancelled
	key := slotKey(booking.TourID, booking.Date, booking.StartTime)
	a.usage[key] -= booking.GroupSize
	if a.usage[key] < 0 {
		a.usage[key] = 0
	}
	if a.count[key] > 0 {
		a.count[key]--
	}
	return nil
}

// remainingLocked computes free spots for one slot. Never negative,
// never above the tour's max group size.
func (a *MemoryAdapter) remainingLocked(tour *models.Tour, date, start string, window models.DayWindow) int {
	key := slotKey(tour.ID, date, start)
	if window.MaxConcurrent > 0 && a.count[key] >= window.MaxConcurrent {
		return 0
	}
	remaining := tour.MaxGroupSize - a.usage[key]
	if remaining < 0 {
		return 0
	}
	if remaining > tour.MaxGroupSize {
		return tour.MaxGroupSize
	}
	return remaining
}

// slotStarts enumerates "HH:MM" start times that fit the window.
func slotStarts(window models.DayWindow, durationMin int) []string {
	start, err1 := minutesOfDay(window.Start)
	end, err2 := minutesOfDay(window.End)
	if err1 != nil || err2 != nil || durationMin <= 0 {
		return nil
	}
	var starts []string
	for m := start; m+durationMin <= end; m += durationMin {
		starts = append(starts, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return starts
}

func minutesOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
