package models

// TimeSlot is a bookable (tour, date, start time) instance with finite
// remaining capacity. Derived on demand from provider responses; never
// persisted by this service.
type TimeSlot struct {
	TourID         string  `json:"tourId"`
	Date           string  `json:"date"`      // "2006-01-02"
	StartTime      string  `json:"startTime"` // "15:04"
	AvailableSpots int     `json:"availableSpots"`
	Price          float64 `json:"price"`
}

// PricingOption is the precomputed total for one group size.
type PricingOption struct {
	GroupSize      int     `json:"groupSize"`
	TotalPrice     float64 `json:"totalPrice"`
	PricePerPerson float64 `json:"pricePerPerson"`
}

// PricingInfo accompanies availability responses so clients can render
// prices without a second round trip.
type PricingInfo struct {
	BasePrice float64         `json:"basePrice"`
	Currency  string          `json:"currency"`
	Options   []PricingOption `json:"options"`
}

// Availability is the normalized result of a provider availability check.
// Degraded marks results synthesized from a backend failure: callers see
// "not available" rather than an error.
type Availability struct {
	Available    bool         `json:"available"`
	Slots        []TimeSlot   `json:"availableSlots"`
	MaxGroupSize int          `json:"maxGroupSize,omitempty"`
	Pricing      *PricingInfo `json:"pricing,omitempty"`
	Reason       string       `json:"reason,omitempty"`
	Degraded     bool         `json:"-"`
}

// DateAvailability is one entry of a bulk range query.
type DateAvailability struct {
	Available  bool   `json:"available"`
	SlotsCount int    `json:"slotsCount,omitempty"`
	Reason     string `json:"reason,omitempty"`
}
