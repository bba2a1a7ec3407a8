package policy

import (
	"context"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

// PolicyRepository интерфейс репозитория политик слотов
type PolicyRepository interface {
	GetByProviderAndService(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error)
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.SlotPolicy, error)
	Upsert(ctx context.Context, p *domain.SlotPolicy) (*domain.SlotPolicy, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// SlotCache кеш вычисленной доступности (опционален).
// Изменение политики меняет сетку слотов, кеш исполнителя инвалидируется.
type SlotCache interface {
	Invalidate(ctx context.Context, providerID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Defaults дефолтная политика слотов из конфигурации приложения
type Defaults struct {
	OpenTime         types.TimeString
	CloseTime        types.TimeString
	SlotStepMinutes  int
	AdvanceDays      int
	MinNoticeMinutes int
}

// effectivePolicy возвращает политику из хранилища либо собранную из дефолтов
func effectivePolicy(p *domain.SlotPolicy, providerID int64, serviceID *int64, d Defaults) *domain.SlotPolicy {
	if p != nil {
		return p
	}
	return &domain.SlotPolicy{
		ProviderID:         providerID,
		ServiceID:          serviceID,
		OpenTime:           d.OpenTime,
		CloseTime:          d.CloseTime,
		SlotStepMinutes:    d.SlotStepMinutes,
		AdvanceBookingDays: d.AdvanceDays,
		MinNoticeMinutes:   d.MinNoticeMinutes,
	}
}
