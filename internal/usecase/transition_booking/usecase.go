package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/servicehub/booking-engine/internal/domain"
	bookingRepo "github.com/servicehub/booking-engine/internal/infra/storage/booking"
	"github.com/servicehub/booking-engine/pkg/providerlock"
)

// UseCase use case перехода бронирования по жизненному циклу.
//
// Легальность перехода определяется машиной состояний бронирования,
// право на событие - ролью актора: клиент может только отменять свои
// бронирования, исполнитель подтверждает, завершает и отменяет
// бронирования своих услуг. Терминальные статусы неизменяемы.
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TxManager
	locker      ProviderLocker
	cache       SlotCache // nil, если кеш выключен
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TxManager,
	locker ProviderLocker,
	cache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		locker:      locker,
		cache:       cache,
		logger:      logger,
	}
}

// Execute применяет событие жизненного цикла к бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: booking=%d, actor=%d, event=%s",
		req.BookingID, req.ActorID, req.Event)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Получаем бронирование вне транзакции, чтобы узнать исполнителя
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// Ранняя проверка прав по снапшоту до захвата блокировки
	if err := authorize(booking, req.ActorID, req.Event); err != nil {
		return nil, err
	}

	// 3. Захватываем блокировку расписания исполнителя
	release, err := uc.locker.Acquire(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, providerlock.ErrLockTimeout) {
			uc.logger.Warn("TransitionBooking: lock wait timeout for provider=%d", booking.ProviderID)
			return nil, ErrProviderBusy
		}
		uc.logger.Error("TransitionBooking: failed to acquire provider lock: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire provider lock: %v", ErrInternal, err)
	}
	defer release()

	// 4. Применяем переход в транзакции с блокировкой строки
	var updated *domain.Booking
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// Перепроверяем по свежему состоянию под блокировкой
		if err := authorize(current, req.ActorID, req.Event); err != nil {
			return err
		}

		next, ok := current.NextStatus(req.Event)
		if !ok {
			uc.logger.Warn("TransitionBooking: event %s is not legal from status %s for booking id=%d",
				req.Event, current.Status, current.ID)
			return fmt.Errorf("%w: cannot %s booking in status %s", ErrInvalidTransition, req.Event, current.Status)
		}

		if next == domain.StatusCanceled {
			err = uc.bookingRepo.Cancel(txCtx, current.ID, current.Status, req.CancelReason)
		} else {
			err = uc.bookingRepo.UpdateStatus(txCtx, current.ID, current.Status, next)
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				// Guard по статусу не сработал - состояние поменялось конкурентно
				return fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
			}
			return fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
		}

		updated, err = uc.bookingRepo.GetByID(txCtx, current.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Терминальный переход освобождает слот - инвалидируем кеш доступности
	if uc.cache != nil && updated.IsTerminal() {
		if err := uc.cache.Invalidate(ctx, updated.ProviderID); err != nil {
			uc.logger.Warn("TransitionBooking: failed to invalidate availability cache: %v", err)
		}
	}

	uc.logger.Info("TransitionBooking: booking id=%d moved to status %s", updated.ID, updated.Status)

	return &Response{Booking: updated}, nil
}

// authorize проверяет право актора применять событие к бронированию.
// Клиент может только отменять, исполнитель управляет полным
// жизненным циклом бронирований своих услуг.
func authorize(booking *domain.Booking, actorID int64, event domain.TransitionEvent) error {
	switch actorID {
	case booking.ProviderID:
		return nil
	case booking.ClientID:
		if event == domain.EventCancel {
			return nil
		}
		return fmt.Errorf("%w: client may only cancel a booking", ErrAccessDenied)
	default:
		return fmt.Errorf("%w: actor is not a party to the booking", ErrAccessDenied)
	}
}
