package domain

import "time"

// Review represents a client's review of a completed booking.
// A review is immutable once created and references exactly one booking.
type Review struct {
	ID         int64
	BookingID  int64
	ClientID   int64
	ProviderID int64
	ServiceID  int64
	Rating     int // 1-5
	Comment    string
	CreatedAt  time.Time
}
