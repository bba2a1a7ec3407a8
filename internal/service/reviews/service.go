package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/servicehub/booking-engine/internal/domain"
	bookingRepo "github.com/servicehub/booking-engine/internal/infra/storage/booking"
	reviewRepo "github.com/servicehub/booking-engine/internal/infra/storage/review"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/internal/service/reviews/models"
)

// Service сервис отзывов на завершенные бронирования
type Service struct {
	reviewRepo  ReviewRepository
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(
	reviewRepo ReviewRepository,
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create создает отзыв на завершенное бронирование.
// Отзыв может оставить только клиент бронирования, ровно один раз.
// Агрегированный рейтинг услуги пересчитывается в той же транзакции.
func (s *Service) Create(ctx context.Context, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: review for booking=%d by client=%d, rating=%d",
		req.BookingID, req.ClientID, req.Rating)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("Create: invalid request: %v", err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Create: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Create: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	if booking.ClientID != req.ClientID {
		s.logger.Warn("Create: access denied for client=%d to booking id=%d", req.ClientID, req.BookingID)
		return nil, ErrAccessDenied
	}

	if booking.Status != domain.StatusCompleted {
		s.logger.Warn("Create: booking id=%d is not completed, status=%s", req.BookingID, booking.Status)
		return nil, ErrBookingNotCompleted
	}

	review := &domain.Review{
		BookingID:  booking.ID,
		ClientID:   booking.ClientID,
		ProviderID: booking.ProviderID,
		ServiceID:  booking.ServiceID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.reviewRepo.Create(txCtx, review); err != nil {
			if errors.Is(err, reviewRepo.ErrReviewExists) {
				return ErrReviewExists
			}
			return fmt.Errorf("%w: Create - failed to create review: %v", ErrInternal, err)
		}

		svc, err := s.serviceRepo.GetByID(txCtx, booking.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: Create - failed to get service: %v", ErrInternal, err)
		}

		// Инкрементальный пересчет среднего рейтинга
		newCount := svc.ReviewCount + 1
		newRating := (svc.Rating*float64(svc.ReviewCount) + float64(req.Rating)) / float64(newCount)

		if err := s.serviceRepo.UpdateRatingAggregate(txCtx, svc.ID, newRating, newCount); err != nil {
			return fmt.Errorf("%w: Create - failed to update rating aggregate: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: created review id=%d for booking=%d", review.ID, review.BookingID)
	return models.FromDomainReview(review), nil
}

// GetByServiceID получает отзывы на услугу, новые первыми
func (s *Service) GetByServiceID(ctx context.Context, serviceID int64) (*models.ReviewListResponse, error) {
	s.logger.Info("GetByServiceID: fetching reviews for service=%d", serviceID)

	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByServiceID: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByServiceID: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetByServiceID - repository error: %v", ErrInternal, err)
	}

	reviews, err := s.reviewRepo.GetByServiceID(ctx, serviceID)
	if err != nil {
		s.logger.Error("GetByServiceID: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetByServiceID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByServiceID: fetched %d reviews for service=%d", len(reviews), serviceID)
	return models.FromDomainReviewList(reviews), nil
}

// validateCreateRequest проверяет корректность запроса на создание отзыва
func validateCreateRequest(req *models.CreateReviewRequest) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinReviewRating, domain.MaxReviewRating)
	}

	if len(req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment must not exceed %d characters", ErrInvalidInput, domain.MaxCommentLength)
	}

	return nil
}
