package models

import (
	"strings"
	"time"
)

// DiscountTier grants a percentage off the base price once a booking
// reaches the given group size. Tiers are cumulative-exclusive: only the
// highest qualifying tier applies.
type DiscountTier struct {
	MinGroupSize int     `json:"minGroupSize" bson:"minGroupSize"`
	PercentOff   float64 `json:"percentOff" bson:"percentOff"`
}

// DayWindow is the bookable window for one weekday.
type DayWindow struct {
	Start         string `json:"start" bson:"start"` // "09:00"
	End           string `json:"end" bson:"end"`     // "17:00"
	MaxConcurrent int    `json:"maxConcurrent" bson:"maxConcurrent"`
}

// Tour is an immutable catalog entry, loaded once at startup and
// read-only thereafter.
type Tour struct {
	ID            string               `json:"id" bson:"_id"`
	Name          string               `json:"name" bson:"name"`
	DurationMin   int                  `json:"durationMin" bson:"durationMin"`
	MaxGroupSize  int                  `json:"maxGroupSize" bson:"maxGroupSize"`
	BasePrice     float64              `json:"basePrice" bson:"basePrice"`
	Currency      string               `json:"currency" bson:"currency"`
	DiscountTiers []DiscountTier       `json:"discountTiers,omitempty" bson:"discountTiers,omitempty"`
	Weekly        map[string]DayWindow `json:"weekly" bson:"weekly"` // keyed by lowercase weekday name
}

// WindowFor returns the availability window for the given date, if the
// tour runs on that weekday.
func (t *Tour) WindowFor(date time.Time) (DayWindow, bool) {
	w, ok := t.Weekly[strings.ToLower(date.Weekday().String())]
	return w, ok
}
