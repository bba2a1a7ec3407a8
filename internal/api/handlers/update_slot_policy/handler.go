package update_slot_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/api/middleware"
	"github.com/servicehub/booking-engine/internal/service/policy"
	"github.com/servicehub/booking-engine/internal/service/policy/models"
)

const (
	msgInvalidProviderID  = "некорректный ID исполнителя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/slot-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/slot-policy - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{id}/slot-policy - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/slot-policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ProviderID = providerID
	req.ActorID = actorID

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/slot-policy - Invalid input: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, policy.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id}/slot-policy - Access denied: provider_id=%d, actor_id=%d",
				providerID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, policy.ErrServiceNotFound):
			h.logger.Warn("PUT /providers/{id}/slot-policy - Service not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("PUT /providers/{id}/slot-policy - Failed to update policy: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/slot-policy - Policy updated: policy_id=%d, provider_id=%d",
		result.ID, providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
