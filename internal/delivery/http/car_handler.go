package http

import (
	"net/http"
	"strconv"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/usecase/catalog"
	"github.com/google/uuid"
)

// CarHandler обрабатывает запросы публичного каталога автомобилей
type CarHandler struct {
	catalogService *catalog.Service
	logger         logger.Logger
}

// NewCarHandler создает новый handler
func NewCarHandler(catalogService *catalog.Service, logger logger.Logger) *CarHandler {
	return &CarHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListCars возвращает активные автомобили каталога
// GET /api/v1/cars
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	limit, offset := getPaginationParams(r)

	cars, err := h.catalogService.ListCars(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list cars", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list cars")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cars,
		"pagination": map[string]interface{}{
			"limit":  limit,
			"offset": offset,
		},
	})
}

// GetCarByID возвращает карточку автомобиля каталога
// GET /api/v1/cars/{id}
func (h *CarHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {
	carIDStr := getPathParam(r, "id")
	carID, err := uuid.Parse(carIDStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	car, err := h.catalogService.GetCar(r.Context(), carID)
	if err != nil {
		if err == domain.ErrCarNotFound {
			respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.logger.Error("Failed to get car", map[string]interface{}{
			"car_id": carID,
			"error":  err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get car")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// getPaginationParams извлекает limit и offset из query параметров
func getPaginationParams(r *http.Request) (limit, offset int) {
	limit = 20 // по умолчанию
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
			if limit > 100 {
				limit = 100 // максимум 100
			}
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	return limit, offset
}
