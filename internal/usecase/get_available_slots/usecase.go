package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/pkg/ptr"
)

// UseCase use case вычисления доступных слотов для бронирования.
// Stateless: доступность пересчитывается на каждый вызов, результат
// может быть закеширован до ближайшей мутации бронирований исполнителя.
type UseCase struct {
	serviceRepo  ServiceRepository
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	cache        SlotCache // nil, если кеш выключен
	defaults     Defaults
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	cache SlotCache,
	defaults Defaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		cache:        cache,
		defaults:     defaults,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute вычисляет доступные слоты услуги на горизонте запроса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, from=%s, days=%d",
		req.ServiceID, req.From.Format(domain.DateFormat), req.HorizonDays)

	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	from := dateOnly(req.From)
	if req.From.IsZero() {
		from = dateOnly(now)
	}

	// 2. Получаем услугу
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Горизонт <= 0 - валидный запрос с пустым ответом
	if req.HorizonDays <= 0 {
		return &Response{
			ServiceID:   svc.ID,
			ProviderID:  svc.ProviderID,
			From:        from,
			HorizonDays: 0,
			Slots:       []domain.Slot{},
		}, nil
	}

	// Неактивная услуга или пустое недельное расписание - бронировать нечего
	if !svc.IsBookable() {
		uc.logger.Info("GetAvailableSlots: service id=%d is not bookable", req.ServiceID)
		return &Response{
			ServiceID:   svc.ID,
			ProviderID:  svc.ProviderID,
			From:        from,
			HorizonDays: req.HorizonDays,
			Slots:       []domain.Slot{},
		}, nil
	}

	// 3. Получаем политику слотов с учетом иерархии
	storedPolicy, err := uc.policyRepo.GetWithHierarchy(ctx, svc.ProviderID, ptr.Ptr(svc.ID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get slot policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot policy: %v", ErrInternal, err)
	}
	policy := policyOrDefaults(storedPolicy, svc.ProviderID, uc.defaults)

	// 4. Ограничиваем горизонт конфигурацией и политикой
	days := req.HorizonDays
	if uc.defaults.MaxHorizonDays > 0 && days > uc.defaults.MaxHorizonDays {
		days = uc.defaults.MaxHorizonDays
	}
	if policy.HasAdvanceBookingLimit() {
		// Дальше advance_booking_days от сегодня бронировать нельзя
		maxDate := dateOnly(now).AddDate(0, 0, policy.AdvanceBookingDays)
		if horizon := int(maxDate.Sub(from).Hours()/24) + 1; horizon < days {
			days = horizon
		}
	}
	if days <= 0 {
		return &Response{
			ServiceID:   svc.ID,
			ProviderID:  svc.ProviderID,
			From:        from,
			HorizonDays: 0,
			Slots:       []domain.Slot{},
		}, nil
	}

	// 5. Пробуем взять результат из кеша
	if uc.cache != nil {
		if slots, err := uc.cache.Get(ctx, svc.ProviderID, svc.ID, from, days); err == nil {
			uc.logger.Info("GetAvailableSlots: cache hit for provider=%d, service=%d", svc.ProviderID, svc.ID)
			return &Response{
				ServiceID:   svc.ID,
				ProviderID:  svc.ProviderID,
				From:        from,
				HorizonDays: days,
				Slots:       slots,
			}, nil
		}
	}

	// 6. Загружаем активные бронирования исполнителя на весь горизонт
	endDate := from.AddDate(0, 0, days-1)
	filter := domain.ProviderBookingsFilter{
		ProviderID: svc.ProviderID,
		StartDate:  &from,
		EndDate:    &endDate,
	}

	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	bookingsByDate := groupByDate(bookings)

	// 7. Обходим горизонт по дням в хронологическом порядке
	slots, err := uc.computeSlots(svc, policy, from, days, now, bookingsByDate)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 8. Кешируем результат
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, svc.ProviderID, svc.ID, from, days, slots); err != nil {
			// Кеш не критичен для корректности - только логируем
			uc.logger.Warn("GetAvailableSlots: failed to cache slots: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: computed %d slots for service=%d over %d days",
		len(slots), svc.ID, days)

	return &Response{
		ServiceID:   svc.ID,
		ProviderID:  svc.ProviderID,
		From:        from,
		HorizonDays: days,
		Slots:       slots,
	}, nil
}

// computeSlots генерирует доступные слоты по дням горизонта
func (uc *UseCase) computeSlots(
	svc *domain.Service,
	policy *domain.SlotPolicy,
	from time.Time,
	days int,
	now time.Time,
	bookingsByDate map[string][]*domain.Booking,
) ([]domain.Slot, error) {
	step := policy.StepFor(svc.DurationMinutes)

	grid, err := generateTimeGrid(policy.OpenTime, policy.CloseTime, step, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0)

	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)

		if !svc.AvailableOn(date.Weekday()) {
			continue
		}

		daySlots, err := filterByNotice(grid, date, now, policy.MinNoticeMinutes)
		if err != nil {
			return nil, err
		}

		dayBookings := bookingsByDate[date.Format(domain.DateFormat)]

		for _, start := range daySlots {
			if isSlotFree(start, svc.DurationMinutes, dayBookings) {
				slots = append(slots, domain.Slot{
					Date:            date,
					StartTime:       start,
					DurationMinutes: svc.DurationMinutes,
				})
			}
		}
	}

	return slots, nil
}
