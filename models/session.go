package models

import "time"

// ConsentContract is the processing purpose a booking requires. Absence
// is a hard validation failure, not a warning.
const ConsentContract = "contract"

// VisitorSession is minted on first visit and revalidated on each
// request. It carries the anti-forgery secret and granted consent
// purposes; it expires with its store TTL.
type VisitorSession struct {
	ID            string          `json:"id"`
	CSRFSecret    string          `json:"csrfSecret"`
	Consent       map[string]bool `json:"consent"`
	LastBookingID string          `json:"lastBookingId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}

func (s *VisitorSession) HasConsent(purpose string) bool {
	if s == nil || s.Consent == nil {
		return false
	}
	return s.Consent[purpose]
}
