package create_review

import (
	"errors"
	"net/http"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/api/middleware"
	"github.com/servicehub/booking-engine/internal/service/reviews"
	"github.com/servicehub/booking-engine/internal/service/reviews/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgBookingNotFound     = "бронирование не найдено"
	msgForbidden           = "доступ запрещен"
	msgBookingNotCompleted = "отзыв можно оставить только на завершенное бронирование"
	msgReviewExists        = "отзыв на это бронирование уже существует"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reviews
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reviews - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reviews - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ClientID = clientID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /reviews - Invalid input: client_id=%d, error=%v", clientID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, reviews.ErrBookingNotFound):
			h.logger.Warn("POST /reviews - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /reviews - Access denied: booking_id=%d, client_id=%d", req.BookingID, clientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrBookingNotCompleted):
			h.logger.Warn("POST /reviews - Booking not completed: booking_id=%d", req.BookingID)
			handlers.RespondConflict(w, msgBookingNotCompleted)

		case errors.Is(err, reviews.ErrReviewExists):
			h.logger.Warn("POST /reviews - Review already exists: booking_id=%d", req.BookingID)
			handlers.RespondConflict(w, msgReviewExists)

		default:
			h.logger.Error("POST /reviews - Failed to create review: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reviews - Review created successfully: review_id=%d, booking_id=%d",
		result.ID, req.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
