package transition_booking

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	transitionBooking "github.com/servicehub/booking-engine/internal/usecase/transition_booking"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Event  string `json:"event"` // confirm, complete, cancel
	Reason string `json:"reason,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	ClientID           int64   `json:"clientId"`
	ProviderID         int64   `json:"providerId"`
	ServiceID          int64   `json:"serviceId"`
	BookingDate        string  `json:"bookingDate"`
	StartTime          string  `json:"startTime"`
	DurationMinutes    int     `json:"durationMinutes"`
	TotalPrice         float64 `json:"totalPrice"`
	Status             string  `json:"status"`
	ServiceTitle       string  `json:"serviceTitle"`
	ServicePrice       float64 `json:"servicePrice"`
	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(bookingID, actorID int64) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID:    bookingID,
		ActorID:      actorID,
		Event:        domain.TransitionEvent(r.Event),
		CancelReason: r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *BookingResponse {
	b := resp.Booking

	out := &BookingResponse{
		ID:                 b.ID,
		ClientID:           b.ClientID,
		ProviderID:         b.ProviderID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		ServiceTitle:       b.ServiceTitle,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledStr
	}

	return out
}
