package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/usecase/booking"
	"github.com/google/uuid"
)

// BookingService - интерфейс сервиса бронирований
type BookingService interface {
	Create(ctx context.Context, renterID uuid.UUID, req *booking.CreateRequest) (*domain.Booking, error)
	GetQuote(ctx context.Context, carID uuid.UUID, start, end time.Time) (*booking.Quote, error)
	MyBookings(ctx context.Context, renterID uuid.UUID) ([]*domain.Booking, error)
	HostBookings(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error)
	Accept(ctx context.Context, ownerID, bookingID uuid.UUID) (*domain.Booking, error)
	Reject(ctx context.Context, ownerID, bookingID uuid.UUID) (*domain.Booking, error)
}

// QuoteRequest - тело запроса расчета стоимости
type QuoteRequest struct {
	CarID     uuid.UUID `json:"car_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// BookingHandler обрабатывает запросы бронирований
type BookingHandler struct {
	bookingService BookingService
	logger         logger.Logger
}

// NewBookingHandler создает новый handler
func NewBookingHandler(bookingService BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking проводит бронирование: расчет, проверка верификации,
// оплата и запись
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req booking.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.bookingService.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case err == domain.ErrUnauthorized:
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		case err == domain.ErrInvalidBookingData:
			respondError(w, http.StatusBadRequest, "Invalid booking data")
		case err == domain.ErrCarNotFound:
			respondError(w, http.StatusNotFound, "Car not found")
		case err == domain.ErrCarNotActive:
			respondError(w, http.StatusConflict, "Car is not available for booking")
		case err == domain.ErrKYCNotApproved:
			respondError(w, http.StatusForbidden, "KYC verification required")
		case err == domain.ErrPaymentDeclined:
			respondError(w, http.StatusPaymentRequired, "Payment was declined")
		case errors.Is(err, domain.ErrPaymentFailed):
			respondError(w, http.StatusBadGateway, "Payment processing failed")
		default:
			h.logger.Error("Failed to create booking", map[string]interface{}{
				"renter_id": claims.UserID,
				"error":     err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// GetQuote возвращает расчет стоимости без бронирования
// POST /api/v1/bookings/quote
func (h *BookingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := h.bookingService.GetQuote(r.Context(), req.CarID, req.StartTime, req.EndTime)
	if err != nil {
		if err == domain.ErrCarNotFound {
			respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.logger.Error("Failed to get quote", map[string]interface{}{
			"car_id": req.CarID,
			"error":  err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    quote,
	})
}

// GetMyBookings возвращает бронирования текущего арендатора
// GET /api/v1/bookings/me
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.MyBookings(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get bookings", map[string]interface{}{
			"renter_id": claims.UserID,
			"error":     err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get bookings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    bookings,
	})
}

// GetHostBookings возвращает бронирования автомобилей текущего владельца
// GET /api/v1/bookings/host
func (h *BookingHandler) GetHostBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.HostBookings(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get host bookings", map[string]interface{}{
			"owner_id": claims.UserID,
			"error":    err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get host bookings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    bookings,
	})
}

// AcceptBooking подтверждает бронирование владельцем
// POST /api/v1/bookings/{id}/accept
func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	h.hostTransition(w, r, h.bookingService.Accept)
}

// RejectBooking отклоняет бронирование владельцем
// POST /api/v1/bookings/{id}/reject
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.hostTransition(w, r, h.bookingService.Reject)
}

func (h *BookingHandler) hostTransition(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, ownerID, bookingID uuid.UUID) (*domain.Booking, error),
) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingIDStr := getPathParam(r, "id")
	bookingID, err := uuid.Parse(bookingIDStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	result, err := action(r.Context(), claims.UserID, bookingID)
	if err != nil {
		switch err {
		case domain.ErrBookingNotFound:
			respondError(w, http.StatusNotFound, "Booking not found")
		case domain.ErrNotCarOwner:
			respondError(w, http.StatusForbidden, "Not the car owner")
		case domain.ErrInvalidStatusTransition:
			respondError(w, http.StatusConflict, "Invalid booking status transition")
		default:
			h.logger.Error("Failed to update booking", map[string]interface{}{
				"booking_id": bookingID,
				"error":      err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update booking")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
