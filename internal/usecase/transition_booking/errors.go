package transition_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrAccessDenied возвращается, когда актор не вправе применять событие
	ErrAccessDenied = errors.New("transition_booking: access denied")

	// ErrInvalidTransition возвращается, когда событие нелегально
	// из текущего статуса бронирования
	ErrInvalidTransition = errors.New("transition_booking: invalid status transition")

	// ErrProviderBusy возвращается, когда не удалось дождаться блокировки
	// расписания исполнителя за отведенный таймаут
	ErrProviderBusy = errors.New("transition_booking: provider schedule is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
