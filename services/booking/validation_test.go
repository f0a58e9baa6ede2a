package booking

import (
	"testing"
	"time"

	"tourbook/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckDate(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, CheckDate("2030-06-16", now).Valid)
	assert.True(t, CheckDate("2030-06-15", now).Valid, "same day is not past")
	assert.False(t, CheckDate("2030-06-14", now).Valid)
	assert.False(t, CheckDate("not-a-date", now).Valid)
	assert.False(t, CheckDate("15.06.2030", now).Valid)
}

func TestCheckDateRange(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, CheckDateRange("2030-06-16", "2030-07-10", now, 30).Valid)
	assert.True(t, CheckDateRange("2030-06-16", "2030-07-15", now, 30).Valid, "end exactly on the horizon")
	assert.False(t, CheckDateRange("2030-06-16", "2030-07-16", now, 30).Valid, "one day past the horizon")
	assert.False(t, CheckDateRange("2030-06-16", "2030-08-16", now, 30).Valid, "beyond horizon")
	assert.False(t, CheckDateRange("2031-01-01", "2031-01-02", now, 30).Valid, "short range, far future")
	assert.False(t, CheckDateRange("2030-06-20", "2030-06-16", now, 30).Valid, "end before start")
	assert.False(t, CheckDateRange("junk", "2030-06-16", now, 30).Valid)
}

func TestCheckStartTime(t *testing.T) {
	tour := testTour() // 09:00-17:00 every day, 120 minutes

	assert.True(t, CheckStartTime(&tour, "2030-06-17", "09:00").Valid)
	assert.True(t, CheckStartTime(&tour, "2030-06-17", "15:00").Valid, "ends exactly at close")
	assert.False(t, CheckStartTime(&tour, "2030-06-17", "16:00").Valid, "would run past close")
	assert.False(t, CheckStartTime(&tour, "2030-06-17", "08:00").Valid)
	assert.False(t, CheckStartTime(&tour, "2030-06-17", "nine").Valid)

	weekend := testTour()
	weekend.Weekly = map[string]models.DayWindow{
		"saturday": {Start: "08:00", End: "14:00"},
	}
	// 2030-06-17 is a Monday.
	assert.False(t, CheckStartTime(&weekend, "2030-06-17", "09:00").Valid)
	// 2030-06-15 is a Saturday.
	assert.True(t, CheckStartTime(&weekend, "2030-06-15", "09:00").Valid)
}

func TestCheckGroupSize(t *testing.T) {
	tour := testTour()

	assert.False(t, CheckGroupSize(&tour, 0).Valid)
	assert.False(t, CheckGroupSize(&tour, -2).Valid)
	assert.True(t, CheckGroupSize(&tour, 1).Valid)
	assert.True(t, CheckGroupSize(&tour, 12).Valid)
	assert.False(t, CheckGroupSize(&tour, 13).Valid)
}

func TestCheckCustomer(t *testing.T) {
	assert.True(t, CheckCustomer(models.Customer{Name: "Ada", Email: "ada@example.com"}).Valid)
	assert.False(t, CheckCustomer(models.Customer{Name: "", Email: "ada@example.com"}).Valid)
	assert.False(t, CheckCustomer(models.Customer{Name: "Ada", Email: "not-an-email"}).Valid)
}

func TestValidateRequestAggregatesErrors(t *testing.T) {
	tour := testTour()
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	req := models.BookingRequest{
		TourID:     tour.ID,
		Date:       "2030-06-01", // past
		StartTime:  "08:00",      // outside window
		GroupSize:  0,            // invalid
		Customer:   models.Customer{Name: "", Email: "bad"},
		TotalPrice: 1,
	}
	details := ValidateRequest(&tour, req, now)
	assert.GreaterOrEqual(t, len(details), 4, "independent checks all report")

	// Price is not checked while group size is invalid.
	for _, d := range details {
		assert.NotContains(t, d, "totalPrice")
	}
}

func TestValidateRequestPriceDependsOnGroupSize(t *testing.T) {
	tour := testTour()
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	req := models.BookingRequest{
		TourID:     tour.ID,
		Date:       "2030-06-20",
		StartTime:  "11:00",
		GroupSize:  4,
		Customer:   models.Customer{Name: "Ada", Email: "ada@example.com"},
		TotalPrice: 162.01,
	}
	details := ValidateRequest(&tour, req, now)
	assert.Len(t, details, 1)
	assert.Contains(t, details[0], "totalPrice mismatch")

	req.TotalPrice = 162.00
	assert.Empty(t, ValidateRequest(&tour, req, now))
}
