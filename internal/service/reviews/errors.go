package reviews

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrAccessDenied возвращается, когда отзыв оставляет не клиент бронирования
	ErrAccessDenied = errors.New("access denied")

	// ErrBookingNotCompleted возвращается, когда бронирование еще не завершено
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrReviewExists возвращается, когда на бронирование уже есть отзыв
	ErrReviewExists = errors.New("review already exists for this booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
