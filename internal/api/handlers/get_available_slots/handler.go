package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/domain"
	getSlots "github.com/servicehub/booking-engine/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidFrom      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays      = "некорректное количество дней"
	msgServiceNotFound  = "услуга не найдена"
)

// defaultHorizonDays горизонт по умолчанию, если days не передан
const defaultHorizonDays = 14

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()

	var from time.Time
	if raw := query.Get("from"); raw != "" {
		from, err = time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /services/{id}/available-slots - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	days := defaultHorizonDays
	if raw := query.Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			h.logger.Warn("GET /services/{id}/available-slots - Invalid days param: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		ServiceID:   serviceID,
		From:        from,
		HorizonDays: days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /services/{id}/available-slots - Failed to get slots: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/available-slots - Computed %d slots for service_id=%d",
		len(result.Slots), serviceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
