package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

func TestBooking_NextStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		event   domain.TransitionEvent
		want    domain.BookingStatus
		allowed bool
	}{
		{"pending confirm", domain.StatusPending, domain.EventConfirm, domain.StatusConfirmed, true},
		{"pending cancel", domain.StatusPending, domain.EventCancel, domain.StatusCanceled, true},
		{"pending complete forbidden", domain.StatusPending, domain.EventComplete, "", false},
		{"confirmed complete", domain.StatusConfirmed, domain.EventComplete, domain.StatusCompleted, true},
		{"confirmed cancel", domain.StatusConfirmed, domain.EventCancel, domain.StatusCanceled, true},
		{"confirmed confirm forbidden", domain.StatusConfirmed, domain.EventConfirm, "", false},
		{"completed is terminal", domain.StatusCompleted, domain.EventCancel, "", false},
		{"canceled is terminal", domain.StatusCanceled, domain.EventConfirm, "", false},
		{"canceled cancel forbidden", domain.StatusCanceled, domain.EventCancel, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &domain.Booking{Status: tt.status}

			next, ok := b.NextStatus(tt.event)

			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.False(t, (&domain.Booking{Status: domain.StatusPending}).IsTerminal())
	assert.False(t, (&domain.Booking{Status: domain.StatusConfirmed}).IsTerminal())
	assert.True(t, (&domain.Booking{Status: domain.StatusCompleted}).IsTerminal())
	assert.True(t, (&domain.Booking{Status: domain.StatusCanceled}).IsTerminal())
}

func TestBooking_IsActive(t *testing.T) {
	assert.True(t, (&domain.Booking{Status: domain.StatusPending}).IsActive())
	assert.True(t, (&domain.Booking{Status: domain.StatusConfirmed}).IsActive())
	assert.False(t, (&domain.Booking{Status: domain.StatusCompleted}).IsActive())
	assert.False(t, (&domain.Booking{Status: domain.StatusCanceled}).IsActive())
}

func TestBooking_EndTime(t *testing.T) {
	b := &domain.Booking{
		StartTime:       types.TimeString("10:30"),
		DurationMinutes: 90,
	}

	end, err := b.EndTime()

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("12:00"), end)
}
