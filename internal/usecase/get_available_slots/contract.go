package get_available_slots

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
	// GetByProviderWithFilter получает бронирования исполнителя за период
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс репозитория политик слотов
type PolicyRepository interface {
	// GetWithHierarchy получает политику с учетом иерархии приоритетов
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error)
}

// SlotCache кеш вычисленной доступности (опционален)
type SlotCache interface {
	Get(ctx context.Context, providerID, serviceID int64, from time.Time, days int) ([]domain.Slot, error)
	Set(ctx context.Context, providerID, serviceID int64, from time.Time, days int, slots []domain.Slot) error
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
