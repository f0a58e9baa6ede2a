package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	tourRepo "tourbook/database/repository/tour"
	"tourbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kayakTour() models.Tour {
	return models.Tour{
		ID:           "harbor-kayak",
		Name:         "Harbor Kayak Tour",
		DurationMin:  180,
		MaxGroupSize: 8,
		BasePrice:    75,
		Currency:     "EUR",
		Weekly: map[string]models.DayWindow{
			"saturday": {Start: "08:00", End: "14:00", MaxConcurrent: 2},
			"sunday":   {Start: "08:00", End: "14:00", MaxConcurrent: 2},
		},
	}
}

func newAdapter(tours ...models.Tour) *MemoryAdapter {
	return NewMemoryAdapter(tourRepo.NewMemoryTourRepo(tours))
}

// nextWeekday finds the next date falling on the given weekday.
func nextWeekday(day time.Weekday) string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func kayakRequest(date string, groupSize int) models.BookingRequest {
	return models.BookingRequest{
		TourID:    "harbor-kayak",
		Date:      date,
		StartTime: "08:00",
		GroupSize: groupSize,
		Customer:  models.Customer{Name: "Ada", Email: "ada@example.com"},
	}
}

func TestMemoryCheckAvailability(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(kayakTour())

	t.Run("slots follow the weekly template", func(t *testing.T) {
		result := adapter.CheckAvailability(ctx, "harbor-kayak", nextWeekday(time.Saturday))
		assert.True(t, result.Available)
		require.Len(t, result.Slots, 2) // 08:00 and 11:00 fit 08:00-14:00
		assert.Equal(t, "08:00", result.Slots[0].StartTime)
		assert.Equal(t, "11:00", result.Slots[1].StartTime)
		assert.Equal(t, 8, result.Slots[0].AvailableSpots)
	})

	t.Run("closed weekday is unavailable", func(t *testing.T) {
		result := adapter.CheckAvailability(ctx, "harbor-kayak", nextWeekday(time.Wednesday))
		assert.False(t, result.Available)
		assert.Equal(t, "tour does not run on this day", result.Reason)
	})

	t.Run("unknown tour is unavailable", func(t *testing.T) {
		result := adapter.CheckAvailability(ctx, "ghost", nextWeekday(time.Saturday))
		assert.False(t, result.Available)
	})
}

func TestMemoryCapacity(t *testing.T) {
	ctx := context.Background()
	date := nextWeekday(time.Saturday)

	t.Run("usage reduces spots and overbooking is refused", func(t *testing.T) {
		adapter := newAdapter(kayakTour())
		_, err := adapter.CreateBooking(ctx, kayakRequest(date, 6))
		require.NoError(t, err)

		result := adapter.CheckAvailability(ctx, "harbor-kayak", date)
		assert.Equal(t, 2, result.Slots[0].AvailableSpots)
		assert.Equal(t, 8, result.Slots[1].AvailableSpots, "other slot untouched")

		_, err = adapter.CreateBooking(ctx, kayakRequest(date, 3))
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("concurrent booking cap closes the slot", func(t *testing.T) {
		adapter := newAdapter(kayakTour())
		_, err := adapter.CreateBooking(ctx, kayakRequest(date, 1))
		require.NoError(t, err)
		_, err = adapter.CreateBooking(ctx, kayakRequest(date, 1))
		require.NoError(t, err)

		// MaxConcurrent is 2: spots remain but no third booking fits.
		result := adapter.CheckAvailability(ctx, "harbor-kayak", date)
		assert.Equal(t, 0, result.Slots[0].AvailableSpots)
		_, err = adapter.CreateBooking(ctx, kayakRequest(date, 1))
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("cancellation restores capacity", func(t *testing.T) {
		adapter := newAdapter(kayakTour())
		created, err := adapter.CreateBooking(ctx, kayakRequest(date, 8))
		require.NoError(t, err)
		_, err = adapter.CreateBooking(ctx, kayakRequest(date, 1))
		require.ErrorIs(t, err, ErrSlotFull)

		require.NoError(t, adapter.CancelBooking(ctx, created.ID))
		result := adapter.CheckAvailability(ctx, "harbor-kayak", date)
		assert.Equal(t, 8, result.Slots[0].AvailableSpots)

		// A second cancel reports the terminal state, never a double restore.
		require.ErrorIs(t, adapter.CancelBooking(ctx, created.ID), ErrAlreadyCancelled)
		result = adapter.CheckAvailability(ctx, "harbor-kayak", date)
		assert.Equal(t, 8, result.Slots[0].AvailableSpots)
	})
}

func TestMemoryConcurrentCreations(t *testing.T) {
	ctx := context.Background()
	date := nextWeekday(time.Saturday)
	adapter := newAdapter(kayakTour())

	const attempts = 30
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := adapter.CreateBooking(ctx, kayakRequest(date, 1))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrSlotFull)
		}
	}
	// MaxConcurrent 2 closes the slot before group capacity does.
	assert.Equal(t, 2, successes)

	result := adapter.CheckAvailability(ctx, "harbor-kayak", date)
	assert.GreaterOrEqual(t, result.Slots[0].AvailableSpots, 0)
	assert.LessOrEqual(t, result.Slots[0].AvailableSpots, 8)
}

func TestMemoryGetBooking(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(kayakTour())

	_, err := adapter.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := adapter.CreateBooking(ctx, kayakRequest(nextWeekday(time.Sunday), 2))
	require.NoError(t, err)

	got, err := adapter.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)

	// Mutating the returned copy never touches stored state.
	got.Status = models.BookingCancelled
	again, err := adapter.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, again.Status)
}
