package get_available_slots

import (
	"github.com/servicehub/booking-engine/internal/domain"
	getSlots "github.com/servicehub/booking-engine/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель одного доступного слота
type SlotResponse struct {
	Date            string `json:"date"`      // "2026-09-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
}

// AvailableSlotsResponse HTTP модель ответа с доступными слотами
type AvailableSlotsResponse struct {
	ServiceID   int64          `json:"serviceId"`
	ProviderID  int64          `json:"providerId"`
	From        string         `json:"from"`
	HorizonDays int            `json:"horizonDays"`
	Slots       []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		ServiceID:   resp.ServiceID,
		ProviderID:  resp.ProviderID,
		From:        resp.From.Format(domain.DateFormat),
		HorizonDays: resp.HorizonDays,
		Slots:       slots,
	}
}
