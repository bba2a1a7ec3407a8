package transition_booking

import "github.com/servicehub/booking-engine/internal/domain"

// Request модель запроса на переход статуса бронирования
type Request struct {
	BookingID    int64                  // ID бронирования
	ActorID      int64                  // ID актора (из заголовка аутентификации)
	Event        domain.TransitionEvent // Событие: confirm, complete, cancel
	CancelReason string                 // Причина отмены (только для cancel, опционально)
}

// Response модель ответа с бронированием после перехода
type Response struct {
	Booking *domain.Booking
}
