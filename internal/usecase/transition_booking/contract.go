package transition_booking

import (
	"context"

	"github.com/servicehub/booking-engine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID внутри транзакции блокирует строку FOR UPDATE
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateStatus применяет переход с guard по текущему статусу
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	// Cancel переводит бронирование в canceled с фиксацией причины
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProviderLocker сериализует мутации расписания одного исполнителя
type ProviderLocker interface {
	Acquire(ctx context.Context, providerID int64) (release func(), err error)
}

// SlotCache кеш вычисленной доступности (опционален)
type SlotCache interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
