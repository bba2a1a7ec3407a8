package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/servicehub/booking-engine/internal/domain"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/internal/service/policy/models"
)

// Service сервис управления политиками слотов исполнителей
type Service struct {
	policyRepo  PolicyRepository
	serviceRepo ServiceRepository
	cache       SlotCache // nil, если кеш выключен
	defaults    Defaults
	logger      Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	serviceRepo ServiceRepository,
	cache SlotCache,
	defaults Defaults,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:  policyRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
		defaults:    defaults,
		logger:      logger,
	}
}

// Get получает действующую политику слотов с учетом иерархии:
// уровень услуги, затем уровень исполнителя, затем дефолты конфигурации.
// Публичный метод, политика видна клиентам при выборе слота.
func (s *Service) Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for provider=%d, service=%v", req.ProviderID, req.ServiceID)

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	stored, err := s.policyRepo.GetWithHierarchy(ctx, req.ProviderID, req.ServiceID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		s.logger.Error("Get: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	policy := effectivePolicy(stored, req.ProviderID, req.ServiceID, s.defaults)
	return models.FromDomainPolicy(policy), nil
}

// Update создает или обновляет политику слотов.
// Доступно только самому исполнителю. Для политики уровня услуги
// проверяется, что услуга принадлежит исполнителю.
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: policy for provider=%d, service=%v by actor=%d",
		req.ProviderID, req.ServiceID, req.ActorID)

	if req.ProviderID != req.ActorID {
		s.logger.Warn("Update: access denied for actor=%d to provider=%d policy", req.ActorID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	policy, err := req.ToDomainPolicy()
	if err != nil {
		s.logger.Warn("Update: invalid time format: %v", err)
		return nil, fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if err := s.validatePolicy(policy); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	if req.ServiceID != nil {
		svc, err := s.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				s.logger.Warn("Update: service id=%d not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Update: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if svc.ProviderID != req.ProviderID {
			s.logger.Warn("Update: service id=%d does not belong to provider=%d", *req.ServiceID, req.ProviderID)
			return nil, ErrAccessDenied
		}
	}

	updated, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Update: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// Новая политика меняет сетку слотов
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.ProviderID); err != nil {
			s.logger.Warn("Update: failed to invalidate availability cache: %v", err)
		}
	}

	s.logger.Info("Update: successfully upserted policy id=%d for provider=%d", updated.ID, req.ProviderID)
	return models.FromDomainPolicy(updated), nil
}

// validatePolicy валидирует параметры политики слотов
func (s *Service) validatePolicy(p *domain.SlotPolicy) error {
	if err := p.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
	}
	if err := p.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
	}
	if !p.OpenTime.IsBefore(p.CloseTime) {
		return fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	if p.SlotStepMinutes != 0 &&
		(p.SlotStepMinutes < domain.MinSlotStepMinutes || p.SlotStepMinutes > domain.MaxSlotStepMinutes) {
		return fmt.Errorf("%w: slotStepMinutes must be 0 or between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if p.AdvanceBookingDays < domain.MinAdvanceDays || p.AdvanceBookingDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDays, domain.MaxAdvanceDays)
	}

	if p.MinNoticeMinutes < domain.MinNoticeMinutesLimit || p.MinNoticeMinutes > domain.MaxNoticeMinutesLimit {
		return fmt.Errorf("%w: minNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinNoticeMinutesLimit, domain.MaxNoticeMinutesLimit)
	}

	return nil
}
