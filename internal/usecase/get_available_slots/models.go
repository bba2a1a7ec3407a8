package get_available_slots

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID   int64     // ID услуги
	From        time.Time // Первая дата горизонта (без времени)
	HorizonDays int       // Количество дней вперед
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID   int64         // ID услуги
	ProviderID  int64         // ID исполнителя
	From        time.Time     // Первая дата горизонта
	HorizonDays int           // Фактический горизонт (после ограничений политики)
	Slots       []domain.Slot // Слоты в хронологическом порядке
}

// Defaults дефолтная политика слотов из конфигурации приложения.
// Применяется, когда у исполнителя нет сохраненной политики.
type Defaults struct {
	OpenTime         types.TimeString
	CloseTime        types.TimeString
	SlotStepMinutes  int
	AdvanceDays      int
	MinNoticeMinutes int
	MaxHorizonDays   int
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
