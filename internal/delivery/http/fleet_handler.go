package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/usecase/fleet"
	"github.com/google/uuid"
)

// CreateListingRequest - тело запроса публикации объявления
type CreateListingRequest struct {
	RegistrationNumber string   `json:"registration_number" validate:"required"`
	Brand              string   `json:"brand" validate:"required"`
	Model              string   `json:"model" validate:"required"`
	Year               int      `json:"year"`
	FuelType           string   `json:"fuel_type"`
	Transmission       string   `json:"transmission"`
	Seats              int      `json:"seats" validate:"required,min=1"`
	City               string   `json:"city"`
	PickupLat          *float64 `json:"pickup_lat,omitempty"`
	PickupLng          *float64 `json:"pickup_lng,omitempty"`
	Features           []string `json:"features,omitempty"`
	PricePerDay        int      `json:"price_per_day" validate:"required,min=1"`
	Currency           string   `json:"currency,omitempty"`
	ImagesBase64       []string `json:"images_base64,omitempty"`
	ImageContentType   string   `json:"image_content_type,omitempty"`
}

// UpdateCarStatusRequest - тело запроса смены статуса автомобиля
type UpdateCarStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// FleetHandler обрабатывает запросы владельца к своему автопарку
type FleetHandler struct {
	fleetService *fleet.Service
	logger       logger.Logger
}

// NewFleetHandler создает новый handler
func NewFleetHandler(fleetService *fleet.Service, logger logger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// CreateListing публикует объявление владельца
// POST /api/v1/fleet/cars
func (h *FleetHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	images := make([]fleet.ListingImage, 0, len(req.ImagesBase64))
	for _, encoded := range req.ImagesBase64 {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid image encoding")
			return
		}
		contentType := req.ImageContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		images = append(images, fleet.ListingImage{Data: data, ContentType: contentType})
	}

	car, err := h.fleetService.CreateListing(r.Context(), claims.UserID, &fleet.CreateListingRequest{
		RegistrationNumber: req.RegistrationNumber,
		Brand:              req.Brand,
		Model:              req.Model,
		Year:               req.Year,
		FuelType:           req.FuelType,
		Transmission:       req.Transmission,
		Seats:              req.Seats,
		City:               req.City,
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		Features:           req.Features,
		PricePerDay:        req.PricePerDay,
		Currency:           req.Currency,
		Images:             images,
	})
	if err != nil {
		switch err {
		case domain.ErrCarAlreadyExists:
			respondError(w, http.StatusConflict, "Car with this registration number already exists")
		case domain.ErrInvalidRegistration:
			respondError(w, http.StatusBadRequest, "Invalid registration number")
		case domain.ErrInvalidCarData, domain.ErrInvalidPricingData:
			respondError(w, http.StatusBadRequest, "Invalid listing data")
		default:
			h.logger.Error("Failed to create listing", map[string]interface{}{
				"owner_id": claims.UserID,
				"error":    err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create listing")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    car,
	})
}

// GetMyCars возвращает автомобили текущего владельца
// GET /api/v1/fleet/cars
func (h *FleetHandler) GetMyCars(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cars, err := h.fleetService.MyCars(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get owner cars", map[string]interface{}{
			"owner_id": claims.UserID,
			"error":    err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get cars")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    cars,
	})
}

// UpdateCarStatus меняет статус автомобиля владельца
// PATCH /api/v1/fleet/cars/{id}
func (h *FleetHandler) UpdateCarStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	carIDStr := getPathParam(r, "id")
	carID, err := uuid.Parse(carIDStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var req UpdateCarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.fleetService.SetStatus(r.Context(), claims.UserID, carID, domain.CarStatus(req.Status))
	if err != nil {
		switch err {
		case domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case domain.ErrNotCarOwner:
			respondError(w, http.StatusForbidden, "Not the car owner")
		case domain.ErrInvalidCarData:
			respondError(w, http.StatusBadRequest, "Invalid car status")
		default:
			h.logger.Error("Failed to update car status", map[string]interface{}{
				"car_id": carID,
				"error":  err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update car status")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Car status updated",
	})
}
