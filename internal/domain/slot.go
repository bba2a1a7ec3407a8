package domain

import (
	"time"

	"github.com/servicehub/booking-engine/pkg/types"
)

// Slot represents a bookable (date, start time) pair
type Slot struct {
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}
