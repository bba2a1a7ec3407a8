package models

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
)

// Request модели

// CreateReviewRequest запрос на создание отзыва
type CreateReviewRequest struct {
	BookingID int64  `json:"bookingId"`
	ClientID  int64  `json:"-"` // Из заголовка аутентификации
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// Response модели

// ReviewResponse ответ с данными отзыва
type ReviewResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	ClientID   int64     `json:"clientId"`
	ProviderID int64     `json:"providerId"`
	ServiceID  int64     `json:"serviceId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewListResponse ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
}

// Методы конвертации

// FromDomainReview конвертирует domain модель в DTO
func FromDomainReview(r *domain.Review) *ReviewResponse {
	if r == nil {
		return nil
	}

	return &ReviewResponse{
		ID:         r.ID,
		BookingID:  r.BookingID,
		ClientID:   r.ClientID,
		ProviderID: r.ProviderID,
		ServiceID:  r.ServiceID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

// FromDomainReviewList конвертирует список domain моделей в DTO
func FromDomainReviewList(reviews []*domain.Review) *ReviewListResponse {
	if reviews == nil {
		return &ReviewListResponse{
			Reviews: []ReviewResponse{},
		}
	}

	resp := &ReviewListResponse{
		Reviews: make([]ReviewResponse, len(reviews)),
	}

	for i, review := range reviews {
		if reviewResp := FromDomainReview(review); reviewResp != nil {
			resp.Reviews[i] = *reviewResp
		}
	}

	return resp
}
