package get_slot_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/service/policy"
	"github.com/servicehub/booking-engine/internal/service/policy/models"
)

const (
	msgInvalidProviderID = "некорректный ID исполнителя"
	msgInvalidServiceID  = "некорректный ID услуги"
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

// Handle GET /api/v1/providers/{providerId}/slot-policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/slot-policy - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	req := &models.GetPolicyRequest{ProviderID: providerID}

	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/slot-policy - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.Get(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/slot-policy - Invalid input: provider_id=%d", providerID)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{id}/slot-policy - Failed to get policy: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/slot-policy - Policy retrieved for provider_id=%d", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
