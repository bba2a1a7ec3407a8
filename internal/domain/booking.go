package domain

import (
	"time"

	"github.com/servicehub/booking-engine/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// TransitionEvent represents a booking lifecycle event
type TransitionEvent string

const (
	EventConfirm  TransitionEvent = "confirm"
	EventComplete TransitionEvent = "complete"
	EventCancel   TransitionEvent = "cancel"
)

// Booking represents a client's booking of a provider's service
type Booking struct {
	ID              int64
	ClientID        int64
	ProviderID      int64 // denormalized from the service for fast per-provider lookups
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	TotalPrice      float64
	Status          BookingStatus

	// Denormalized data for history
	ServiceTitle string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCanceled
}

// IsActive returns true if the booking still occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// NextStatus returns the status the booking moves to on the given event.
// Returns false when the event is not legal from the current state:
// pending -> confirmed | canceled, confirmed -> completed | canceled,
// terminal states accept nothing.
func (b *Booking) NextStatus(event TransitionEvent) (BookingStatus, bool) {
	switch b.Status {
	case StatusPending:
		switch event {
		case EventConfirm:
			return StatusConfirmed, true
		case EventCancel:
			return StatusCanceled, true
		}
	case StatusConfirmed:
		switch event {
		case EventComplete:
			return StatusCompleted, true
		case EventCancel:
			return StatusCanceled, true
		}
	}
	return "", false
}

// EndTime returns the end of the booked interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// ProviderBookingsFilter фильтр для получения бронирований исполнителя
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершенные и отмененные бронирования
}
