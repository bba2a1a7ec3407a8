package create_booking

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID        int64            // ID клиента (из заголовка аутентификации)
	ServiceID       int64            // ID услуги
	BookingDate     time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала слота
	DurationMinutes int              // Длительность (0 = длительность услуги)
	Notes           string           // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}

// Defaults дефолтная политика слотов из конфигурации приложения
type Defaults struct {
	OpenTime         types.TimeString
	CloseTime        types.TimeString
	SlotStepMinutes  int
	AdvanceDays      int
	MinNoticeMinutes int
}

// policyOrDefaults возвращает политику из хранилища либо собранную из дефолтов
func policyOrDefaults(p *domain.SlotPolicy, providerID int64, d Defaults) *domain.SlotPolicy {
	if p != nil {
		return p
	}
	return &domain.SlotPolicy{
		ProviderID:         providerID,
		OpenTime:           d.OpenTime,
		CloseTime:          d.CloseTime,
		SlotStepMinutes:    d.SlotStepMinutes,
		AdvanceBookingDays: d.AdvanceDays,
		MinNoticeMinutes:   d.MinNoticeMinutes,
	}
}
