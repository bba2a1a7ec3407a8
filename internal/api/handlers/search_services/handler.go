package search_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/servicehub/booking-engine/internal/api/handlers"
	"github.com/servicehub/booking-engine/internal/service/catalog"
	"github.com/servicehub/booking-engine/internal/service/catalog/models"
)

const (
	msgInvalidCategoryID = "некорректный ID категории"
	msgInvalidPrice      = "некорректный диапазон цены"
	msgInvalidQuery      = "некорректные параметры поиска"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		h.logger.Warn("GET /services - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /services - Invalid search request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /services - Failed to search services: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services - Found %d services", len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseSearchRequest извлекает параметры поиска из query string
func parseSearchRequest(r *http.Request) (*models.SearchRequest, error) {
	query := r.URL.Query()

	req := &models.SearchRequest{
		Text: query.Get("text"),
	}

	if raw := query.Get("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New(msgInvalidCategoryID)
		}
		req.CategoryID = &categoryID
	}

	if raw := query.Get("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New(msgInvalidPrice)
		}
		req.MinPrice = minPrice
	}

	if raw := query.Get("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New(msgInvalidPrice)
		}
		req.MaxPrice = &maxPrice
	}

	return req, nil
}
