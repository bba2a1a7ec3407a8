package models

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	"github.com/servicehub/booking-engine/pkg/types"
)

// Request модели

// GetPolicyRequest запрос на получение действующей политики слотов
type GetPolicyRequest struct {
	ProviderID int64  `json:"providerId"`
	ServiceID  *int64 `json:"serviceId,omitempty"` // nil = политика уровня исполнителя
}

// UpdatePolicyRequest запрос на создание или обновление политики слотов
type UpdatePolicyRequest struct {
	ProviderID         int64  `json:"providerId"`
	ActorID            int64  `json:"-"` // Из заголовка аутентификации
	ServiceID          *int64 `json:"serviceId,omitempty"`
	OpenTime           string `json:"openTime"`  // "09:00"
	CloseTime          string `json:"closeTime"` // "18:00"
	SlotStepMinutes    int    `json:"slotStepMinutes"`
	AdvanceBookingDays int    `json:"advanceBookingDays"`
	MinNoticeMinutes   int    `json:"minNoticeMinutes"`
}

// ToDomainPolicy конвертирует request в domain модель
func (r *UpdatePolicyRequest) ToDomainPolicy() (*domain.SlotPolicy, error) {
	openTime, err := types.NewTimeStringFromString(r.OpenTime)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromString(r.CloseTime)
	if err != nil {
		return nil, err
	}

	return &domain.SlotPolicy{
		ProviderID:         r.ProviderID,
		ServiceID:          r.ServiceID,
		OpenTime:           openTime,
		CloseTime:          closeTime,
		SlotStepMinutes:    r.SlotStepMinutes,
		AdvanceBookingDays: r.AdvanceBookingDays,
		MinNoticeMinutes:   r.MinNoticeMinutes,
	}, nil
}

// Response модели

// PolicyResponse ответ с данными политики слотов
type PolicyResponse struct {
	ID                 int64     `json:"id,omitempty"` // 0 = политика собрана из дефолтов
	ProviderID         int64     `json:"providerId"`
	ServiceID          *int64    `json:"serviceId,omitempty"`
	OpenTime           string    `json:"openTime"`
	CloseTime          string    `json:"closeTime"`
	SlotStepMinutes    int       `json:"slotStepMinutes"`
	AdvanceBookingDays int       `json:"advanceBookingDays"`
	MinNoticeMinutes   int       `json:"minNoticeMinutes"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.SlotPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:                 p.ID,
		ProviderID:         p.ProviderID,
		ServiceID:          p.ServiceID,
		OpenTime:           p.OpenTime.String(),
		CloseTime:          p.CloseTime.String(),
		SlotStepMinutes:    p.SlotStepMinutes,
		AdvanceBookingDays: p.AdvanceBookingDays,
		MinNoticeMinutes:   p.MinNoticeMinutes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
