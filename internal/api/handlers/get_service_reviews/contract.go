package get_service_reviews

import (
	"context"

	"github.com/servicehub/booking-engine/internal/service/reviews/models"
)

type ReviewService interface {
	GetByServiceID(ctx context.Context, serviceID int64) (*models.ReviewListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
