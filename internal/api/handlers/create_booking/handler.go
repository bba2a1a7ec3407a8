package create_booking

import (
	"errors"
	"net/http"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/api/middleware"
	createBooking "github.com/servicehub/booking-engine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceNotBookable = "услуга недоступна для бронирования"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgProviderBusy       = "расписание исполнителя занято, повторите попытку"
)

// retryAfterSeconds рекомендация клиенту при таймауте блокировки
const retryAfterSeconds = 1

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceNotBookable):
			h.logger.Warn("POST /bookings - Service not bookable: service_id=%d", req.ServiceID)
			handlers.RespondConflict(w, msgServiceNotBookable)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: client_id=%d, service_id=%d", clientID, req.ServiceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrProviderBusy):
			h.logger.Warn("POST /bookings - Provider busy: client_id=%d, service_id=%d", clientID, req.ServiceID)
			handlers.RespondServiceUnavailable(w, retryAfterSeconds, msgProviderBusy)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, service_id=%d, error=%v",
				clientID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, service_id=%d",
		result.Booking.ID, clientID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
