package transition_booking

import (
	"fmt"

	"github.com/servicehub/booking-engine/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	switch req.Event {
	case domain.EventConfirm, domain.EventComplete, domain.EventCancel:
	default:
		return fmt.Errorf("%w: unknown event %q", ErrInvalidInput, req.Event)
	}

	if req.Event != domain.EventCancel && req.CancelReason != "" {
		return fmt.Errorf("%w: cancelReason is only allowed for cancel", ErrInvalidInput)
	}

	if len(req.CancelReason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: cancelReason must not exceed %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}

	return nil
}
