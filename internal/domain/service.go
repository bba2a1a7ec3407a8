package domain

import "time"

// PriceType defines how a service price is applied
type PriceType string

const (
	PricePerSession PriceType = "per_session"
	PricePerHour    PriceType = "per_hour"
	PricePerProject PriceType = "per_project"
)

// Service represents a provider's published service in the catalog
type Service struct {
	ID          int64
	ProviderID  int64
	Title       string
	Description string
	CategoryID  int64
	Price       float64
	PriceType   PriceType
	Location    string

	// WeeklyAvailability is the set of weekdays the service can be booked on.
	// Must be non-empty for an active service.
	WeeklyAvailability []time.Weekday

	// DurationMinutes is the default duration of one session and the
	// default slot granularity for availability computation
	DurationMinutes int

	Rating      float64
	ReviewCount int
	Featured    bool
	Active      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable returns true if the service accepts bookings at all
func (s *Service) IsBookable() bool {
	return s.Active && len(s.WeeklyAvailability) > 0
}

// AvailableOn returns true if the service is offered on the given weekday
func (s *Service) AvailableOn(day time.Weekday) bool {
	for _, d := range s.WeeklyAvailability {
		if d == day {
			return true
		}
	}
	return false
}

// TotalPrice computes the booking price for the given duration:
// hourly services multiply the rate by the booked hours, everything
// else is a flat price per session/project
func (s *Service) TotalPrice(durationMinutes int) float64 {
	if s.PriceType == PricePerHour {
		return s.Price * float64(durationMinutes) / 60.0
	}
	return s.Price
}

// CatalogQuery параметры поиска по каталогу услуг
type CatalogQuery struct {
	Text       string   // Подстрока в названии или описании (без учета регистра)
	CategoryID *int64   // Фильтр по категории (опционально)
	MinPrice   float64  // Нижняя граница цены (>= 0)
	MaxPrice   *float64 // Верхняя граница цены (опционально, nil - без ограничения)
}
