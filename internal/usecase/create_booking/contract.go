package create_booking

import (
	"context"
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetByProviderWithFilter внутри транзакции с фильтром на одну дату
	// блокирует строки FOR UPDATE
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс репозитория политик слотов
type PolicyRepository interface {
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProviderLocker сериализует мутации расписания одного исполнителя.
// Acquire ждет не дольше сконфигурированного таймаута.
type ProviderLocker interface {
	Acquire(ctx context.Context, providerID int64) (release func(), err error)
}

// SlotCache кеш вычисленной доступности (опционален).
// После успешного создания бронирования инвалидируется до снятия
// блокировки исполнителя.
type SlotCache interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
