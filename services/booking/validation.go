package booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"tourbook/models"
)

// CheckResult is the discriminated outcome of one validator.
type CheckResult struct {
	Valid bool
	Error string
}

func valid() CheckResult {
	return CheckResult{Valid: true}
}

func invalid(msg string) CheckResult {
	return CheckResult{Valid: false, Error: msg}
}

// CheckDate accepts "2006-01-02" dates strictly after today. Single-date
// requests have no upper bound beyond "must be in the future".
func CheckDate(date string, now time.Time) CheckResult {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return invalid("date must be formatted as YYYY-MM-DD")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return invalid("date is in the past")
	}
	return valid()
}

// CheckDateRange bounds bulk queries to the configured booking horizon:
// the end date may lie at most horizonDays from today, which also caps
// the range length. Past dates inside the range are rejected per-date.
func CheckDateRange(startDate, endDate string, now time.Time, horizonDays int) CheckResult {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return invalid("startDate must be formatted as YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return invalid("endDate must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return invalid("endDate is before startDate")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if end.After(today.AddDate(0, 0, horizonDays)) {
		return invalid(fmt.Sprintf("endDate is beyond the %d-day booking horizon", horizonDays))
	}
	return valid()
}

// CheckStartTime requires the slot to fit the tour's window for that
// date's weekday, duration included.
func CheckStartTime(tour *models.Tour, date, startTime string) CheckResult {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return invalid("date must be formatted as YYYY-MM-DD")
	}
	window, ok := tour.WindowFor(day)
	if !ok {
		return invalid("tour does not run on this day")
	}
	start, err := clockMinutes(startTime)
	if err != nil {
		return invalid("startTime must be formatted as HH:MM")
	}
	windowStart, err1 := clockMinutes(window.Start)
	windowEnd, err2 := clockMinutes(window.End)
	if err1 != nil || err2 != nil {
		return invalid("tour schedule is misconfigured")
	}
	if start < windowStart || start+tour.DurationMin > windowEnd {
		return invalid(fmt.Sprintf("startTime must fall between %s and %s", window.Start, window.End))
	}
	return valid()
}

// CheckGroupSize bounds the group to [1, tour max].
func CheckGroupSize(tour *models.Tour, groupSize int) CheckResult {
	if groupSize < 1 {
		return invalid("groupSize must be at least 1")
	}
	if groupSize > tour.MaxGroupSize {
		return invalid(fmt.Sprintf("groupSize exceeds maximum of %d", tour.MaxGroupSize))
	}
	return valid()
}

// CheckCustomer requires a name and a parseable contact email.
func CheckCustomer(customer models.Customer) CheckResult {
	if strings.TrimSpace(customer.Name) == "" {
		return invalid("customer name is required")
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return invalid("customer email is invalid")
	}
	return valid()
}

// CheckPrice compares the client total against the server-computed one.
// Zero tolerance after cent rounding: mismatches are rejected, never
// silently corrected.
func CheckPrice(tour *models.Tour, groupSize int, clientTotal float64) CheckResult {
	expected := CalculateTotalPrice(tour, groupSize)
	if roundCents(clientTotal) != expected {
		return invalid(fmt.Sprintf("totalPrice mismatch: expected %.2f %s", expected, tour.Currency))
	}
	return valid()
}

// ValidateRequest runs all applicable checks and aggregates their
// errors. Pricing only runs once group size is valid, since the
// computation depends on it.
func ValidateRequest(tour *models.Tour, req models.BookingRequest, now time.Time) []string {
	var details []string
	collect := func(r CheckResult) bool {
		if !r.Valid {
			details = append(details, r.Error)
		}
		return r.Valid
	}

	collect(CheckDate(req.Date, now))
	collect(CheckStartTime(tour, req.Date, req.StartTime))
	collect(CheckCustomer(req.Customer))
	if collect(CheckGroupSize(tour, req.GroupSize)) {
		collect(CheckPrice(tour, req.GroupSize, req.TotalPrice))
	}
	return details
}

func clockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
