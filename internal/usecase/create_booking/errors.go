package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceNotBookable возвращается, когда услуга неактивна
	// или не имеет недельного расписания
	ErrServiceNotBookable = errors.New("create_booking: service is not bookable")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот не входит
	// в сетку, нарушает политику или уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrProviderBusy возвращается, когда не удалось дождаться блокировки
	// расписания исполнителя за отведенный таймаут
	ErrProviderBusy = errors.New("create_booking: provider schedule is busy, try again later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
