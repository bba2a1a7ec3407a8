package domain

import (
	"time"

	"github.com/servicehub/booking-engine/pkg/types"
)

// SlotPolicy represents the slot configuration of a provider.
// Supports two levels:
// 1. Service-specific (provider_id, service_id)
// 2. Provider-wide (provider_id, NULL)
// When neither exists, defaults from the application config apply.
type SlotPolicy struct {
	ID         int64
	ProviderID int64
	ServiceID  *int64 // NULL = policy for all services of the provider

	OpenTime  types.TimeString
	CloseTime types.TimeString

	// SlotStepMinutes is the distance between grid start times.
	// 0 means the step follows the service's own duration.
	SlotStepMinutes int

	AdvanceBookingDays int // 0 = unlimited
	MinNoticeMinutes   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsProviderWide returns true if the policy applies to all services of the provider
func (p *SlotPolicy) IsProviderWide() bool {
	return p.ServiceID == nil
}

// StepFor returns the grid step for the given service duration
func (p *SlotPolicy) StepFor(serviceDurationMinutes int) int {
	if p.SlotStepMinutes > 0 {
		return p.SlotStepMinutes
	}
	return serviceDurationMinutes
}

// HasAdvanceBookingLimit returns true if the booking horizon is limited
func (p *SlotPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}
