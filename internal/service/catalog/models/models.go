package models

import (
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
)

// Request модели

// SearchRequest запрос на поиск по каталогу услуг
type SearchRequest struct {
	Text       string   `json:"text,omitempty"`       // Подстрока в названии или описании
	CategoryID *int64   `json:"categoryId,omitempty"` // Фильтр по категории (опционально)
	MinPrice   float64  `json:"minPrice,omitempty"`   // Нижняя граница цены
	MaxPrice   *float64 `json:"maxPrice,omitempty"`   // Верхняя граница цены (опционально)
}

// ToDomainQuery конвертирует request в domain запрос
func (r *SearchRequest) ToDomainQuery() domain.CatalogQuery {
	return domain.CatalogQuery{
		Text:       r.Text,
		CategoryID: r.CategoryID,
		MinPrice:   r.MinPrice,
		MaxPrice:   r.MaxPrice,
	}
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID                 int64    `json:"id"`
	ProviderID         int64    `json:"providerId"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	CategoryID         int64    `json:"categoryId"`
	Price              float64  `json:"price"`
	PriceType          string   `json:"priceType"`
	Location           string   `json:"location,omitempty"`
	WeeklyAvailability []string `json:"weeklyAvailability"`
	DurationMinutes    int      `json:"durationMinutes"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"reviewCount"`
	Featured           bool     `json:"featured"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:                 s.ID,
		ProviderID:         s.ProviderID,
		Title:              s.Title,
		Description:        s.Description,
		CategoryID:         s.CategoryID,
		Price:              s.Price,
		PriceType:          string(s.PriceType),
		Location:           s.Location,
		WeeklyAvailability: domain.WeekdayNames(s.WeeklyAvailability),
		DurationMinutes:    s.DurationMinutes,
		Rating:             s.Rating,
		ReviewCount:        s.ReviewCount,
		Featured:           s.Featured,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	if services == nil {
		return &ServiceListResponse{
			Services: []ServiceResponse{},
		}
	}

	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, len(services)),
	}

	for i, svc := range services {
		if svcResp := FromDomainService(svc); svcResp != nil {
			resp.Services[i] = *svcResp
		}
	}

	return resp
}
