package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/servicehub/booking-engine/internal/domain"
	policyRepo "github.com/servicehub/booking-engine/internal/infra/storage/policy"
	serviceRepo "github.com/servicehub/booking-engine/internal/infra/storage/service"
	"github.com/servicehub/booking-engine/pkg/providerlock"
	"github.com/servicehub/booking-engine/pkg/ptr"
	"github.com/servicehub/booking-engine/pkg/types"
)

// UseCase use case создания бронирования.
//
// Мутации расписания одного исполнителя сериализуются двумя уровнями:
// процессной блокировкой по provider_id с ограниченным ожиданием и
// сериализуемой транзакцией с FOR UPDATE на бронированиях дня.
// Из двух конкурентных запросов на один слот ровно один создаст
// бронирование, второй получит ErrSlotNotAvailable.
type UseCase struct {
	serviceRepo  ServiceRepository
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	txManager    TxManager
	locker       ProviderLocker
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
	txManager TxManager,
	locker ProviderLocker,
	cache SlotCache,
	defaults Defaults,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		txManager:    txManager,
		locker:       locker,
		cache:        cache,
		defaults:     defaults,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает бронирование слота услуги для клиента
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, service=%d, date=%s, start=%s",
		req.ClientID, req.ServiceID, req.BookingDate.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Получаем услугу и проверяем, что ее можно бронировать
	svc, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.IsBookable() {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotBookable
	}

	if req.ClientID == svc.ProviderID {
		return nil, fmt.Errorf("%w: provider cannot book own service", ErrInvalidInput)
	}

	// 3. Получаем политику слотов и проверяем легальность слота
	storedPolicy, err := uc.policyRepo.GetWithHierarchy(ctx, svc.ProviderID, ptr.Ptr(svc.ID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("CreateBooking: failed to get slot policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot policy: %v", ErrInternal, err)
	}
	policy := policyOrDefaults(storedPolicy, svc.ProviderID, uc.defaults)

	// Длительность по умолчанию берется из услуги
	duration := req.DurationMinutes
	if duration == 0 {
		duration = svc.DurationMinutes
	}

	if err := uc.validateSlot(svc, policy, req, duration); err != nil {
		return nil, err
	}

	// 4. Захватываем блокировку расписания исполнителя
	release, err := uc.locker.Acquire(ctx, svc.ProviderID)
	if err != nil {
		if errors.Is(err, providerlock.ErrLockTimeout) {
			uc.logger.Warn("CreateBooking: lock wait timeout for provider=%d", svc.ProviderID)
			return nil, ErrProviderBusy
		}
		uc.logger.Error("CreateBooking: failed to acquire provider lock: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire provider lock: %v", ErrInternal, err)
	}
	defer release()

	// 5. Проверяем занятость и создаем бронирование в сериализуемой транзакции
	booking := &domain.Booking{
		ClientID:        req.ClientID,
		ProviderID:      svc.ProviderID,
		ServiceID:       svc.ID,
		BookingDate:     dateOnly(req.BookingDate),
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		TotalPrice:      svc.TotalPrice(duration),
		Status:          domain.StatusPending,
		ServiceTitle:    svc.Title,
		ServicePrice:    svc.Price,
	}
	if req.Notes != "" {
		booking.Notes = ptr.Ptr(req.Notes)
	}

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookingDate := booking.BookingDate
		filter := domain.ProviderBookingsFilter{
			ProviderID: svc.ProviderID,
			StartDate:  &bookingDate,
			EndDate:    &bookingDate,
		}

		dayBookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get provider bookings: %v", ErrInternal, err)
		}

		if overlapping := findOverlap(req.StartTime, duration, dayBookings); overlapping != nil {
			uc.logger.Warn("CreateBooking: slot %s conflicts with booking id=%d", req.StartTime, overlapping.ID)
			return ErrSlotNotAvailable
		}

		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Инвалидируем кеш доступности до снятия блокировки
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, svc.ProviderID); err != nil {
			uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
		}
	}

	uc.logger.Info("CreateBooking: created booking id=%d for client=%d, provider=%d",
		booking.ID, booking.ClientID, booking.ProviderID)

	return &Response{Booking: booking}, nil
}

// validateSlot проверяет, что запрошенный слот принадлежит сетке услуги
// и не нарушает ограничения политики
func (uc *UseCase) validateSlot(svc *domain.Service, policy *domain.SlotPolicy, req *Request, duration int) error {
	now := uc.timeProvider.Now()
	bookingDate := dateOnly(req.BookingDate)

	if bookingDate.Before(dateOnly(now)) {
		return fmt.Errorf("%w: booking date is in the past", ErrInvalidInput)
	}

	if policy.HasAdvanceBookingLimit() {
		maxDate := dateOnly(now).AddDate(0, 0, policy.AdvanceBookingDays)
		if bookingDate.After(maxDate) {
			return fmt.Errorf("%w: booking date exceeds advance limit", ErrSlotNotAvailable)
		}
	}

	if !svc.AvailableOn(bookingDate.Weekday()) {
		return fmt.Errorf("%w: service is not available on %s", ErrSlotNotAvailable, bookingDate.Weekday())
	}

	if !inTimeGrid(req.StartTime, policy, svc.DurationMinutes, duration) {
		return fmt.Errorf("%w: start time is not on the slot grid", ErrSlotNotAvailable)
	}

	// Для сегодняшней даты слот должен начинаться не раньше now + minNotice
	if isSameDay(bookingDate, now) {
		minAllowed, err := types.NewTimeString(now).AddMinutes(policy.MinNoticeMinutes)
		if err != nil {
			return fmt.Errorf("%w: start time is not on the slot grid", ErrSlotNotAvailable)
		}
		if req.StartTime.IsBefore(minAllowed) {
			return fmt.Errorf("%w: start time violates minimum notice", ErrSlotNotAvailable)
		}
	}

	return nil
}

// inTimeGrid проверяет принадлежность стартового времени сетке слотов:
// начало кратно шагу от открытия, интервал целиком в рабочем окне.
// Шаг сетки определяется длительностью услуги, интервал - длительностью
// бронирования.
func inTimeGrid(start types.TimeString, policy *domain.SlotPolicy, serviceDuration, duration int) bool {
	startMin, err := start.MinutesOfDay()
	if err != nil {
		return false
	}
	openMin, err := policy.OpenTime.MinutesOfDay()
	if err != nil {
		return false
	}
	closeMin, err := policy.CloseTime.MinutesOfDay()
	if err != nil {
		return false
	}

	step := policy.StepFor(serviceDuration)
	if step <= 0 {
		return false
	}

	if startMin < openMin || startMin+duration > closeMin {
		return false
	}

	return (startMin-openMin)%step == 0
}

// findOverlap возвращает первое активное бронирование, пересекающееся
// с интервалом [start, start+duration), либо nil.
// Пересечение считается по строгим неравенствам.
func findOverlap(start types.TimeString, duration int, bookings []*domain.Booking) *domain.Booking {
	slotEnd, err := start.AddMinutes(duration)
	if err != nil {
		return nil
	}

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}

		bookingEnd, err := b.EndTime()
		if err != nil {
			continue
		}

		if b.StartTime.IsBefore(slotEnd) && bookingEnd.IsAfter(start) {
			return b
		}
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
