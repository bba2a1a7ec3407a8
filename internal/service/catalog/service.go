package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/servicehub/booking-engine/internal/domain"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/internal/service/catalog/models"
)

// Service сервис поиска по каталогу услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Search ищет активные услуги по подстроке, категории и диапазону цены.
// Результат отсортирован: featured услуги первыми, затем по убыванию рейтинга
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.ServiceListResponse, error) {
	s.logger.Info("Search: text=%q, category=%v, price=[%v, %v]",
		req.Text, req.CategoryID, req.MinPrice, req.MaxPrice)

	if err := validateSearchRequest(req); err != nil {
		s.logger.Warn("Search: invalid request: %v", err)
		return nil, err
	}

	services, err := s.serviceRepo.Search(ctx, req.ToDomainQuery())
	if err != nil {
		s.logger.Error("Search: repository error: %v", err)
		return nil, fmt.Errorf("%w: Search - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Search: found %d services", len(services))
	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(svc), nil
}

// validateSearchRequest проверяет корректность параметров поиска
func validateSearchRequest(req *models.SearchRequest) error {
	if len(req.Text) > domain.MaxSearchTextLength {
		return fmt.Errorf("%w: text must not exceed %d characters", ErrInvalidInput, domain.MaxSearchTextLength)
	}

	if req.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must not be negative", ErrInvalidInput)
	}

	if req.MaxPrice != nil {
		if *req.MaxPrice < 0 {
			return fmt.Errorf("%w: maxPrice must not be negative", ErrInvalidInput)
		}
		if *req.MaxPrice < req.MinPrice {
			return fmt.Errorf("%w: maxPrice must not be less than minPrice", ErrInvalidInput)
		}
	}

	if req.CategoryID != nil && *req.CategoryID <= 0 {
		return fmt.Errorf("%w: categoryId must be positive", ErrInvalidInput)
	}

	return nil
}
