package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/infrastructure/payment"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
)

// KYCGate отвечает на один вопрос: допущен ли пользователь к бронированию
type KYCGate interface {
	IsApproved(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CreateRequest - запрос на бронирование автомобиля на временное окно
type CreateRequest struct {
	CarID     uuid.UUID `json:"car_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// Quote - расчет стоимости бронирования до оплаты
type Quote struct {
	Days            int    `json:"days"`
	DailyRate       int    `json:"daily_rate"`
	RentalAmount    int    `json:"rental_amount"`
	SecurityDeposit int    `json:"security_deposit"`
	TotalAmount     int    `json:"total_amount"`
	Currency        string `json:"currency"`
}

// Service содержит бизнес-логику бронирований
type Service struct {
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	pricingRepo repository.PricingPlanRepository
	mediaRepo   repository.CarMediaRepository
	kycGate     KYCGate
	payments    payment.Provider
	logger      logger.Logger
}

// NewService создает новый экземпляр BookingService
func NewService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	pricingRepo repository.PricingPlanRepository,
	mediaRepo repository.CarMediaRepository,
	kycGate KYCGate,
	payments payment.Provider,
	logger logger.Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		pricingRepo: pricingRepo,
		mediaRepo:   mediaRepo,
		kycGate:     kycGate,
		payments:    payments,
		logger:      logger,
	}
}

// quote рассчитывает стоимость: дни * тариф + депозит
func (s *Service) quote(car *domain.Car, start, end time.Time) *Quote {
	days := domain.RentalDays(start, end)
	rate := car.DailyRate()
	currency := "USD"
	if len(car.Pricing) > 0 && car.Pricing[0].Currency != "" {
		currency = car.Pricing[0].Currency
	}
	return &Quote{
		Days:            days,
		DailyRate:       rate,
		RentalAmount:    rate * days,
		SecurityDeposit: domain.SecurityDeposit,
		TotalAmount:     rate*days + domain.SecurityDeposit,
		Currency:        currency,
	}
}

// Create проводит бронирование целиком: расчет стоимости, проверка
// верификации, списание оплаты и запись в БД. Бронирование появляется
// в БД только после успешного списания; отказ платежа или ошибка на любом
// предыдущем шаге не оставляют следов.
func (s *Service) Create(ctx context.Context, renterID uuid.UUID, req *CreateRequest) (*domain.Booking, error) {
	s.logger.Info("Creating booking", map[string]interface{}{
		"car_id":    req.CarID,
		"renter_id": renterID,
	})

	if renterID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if req.CarID == uuid.Nil || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, domain.ErrInvalidBookingData
	}

	// Шаг 1: автомобиль и тариф
	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	if !car.IsBookable() {
		return nil, domain.ErrCarNotActive
	}
	car.Pricing, err = s.pricingRepo.GetByCarID(ctx, req.CarID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing plans: %w", err)
	}

	// Шаг 2: расчет стоимости
	quote := s.quote(car, req.StartTime, req.EndTime)

	// Шаг 3: допуск по верификации. Ошибка проверки не трактуется
	// как отказ - она возвращается наверх как сбой.
	approved, err := s.kycGate.IsApproved(ctx, renterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check kyc approval: %w", err)
	}
	if !approved {
		s.logger.Warn("Booking rejected: KYC not approved", map[string]interface{}{
			"renter_id": renterID,
		})
		return nil, domain.ErrKYCNotApproved
	}

	// Шаг 4: списание оплаты
	result, err := s.payments.Charge(ctx, &payment.ChargeRequest{
		Amount:      quote.TotalAmount,
		Currency:    quote.Currency,
		PrincipalID: renterID.String(),
		Reference:   fmt.Sprintf("booking:%s:%d", req.CarID, req.StartTime.Unix()),
		Description: fmt.Sprintf("%s %s, %d day(s)", car.Brand, car.Model, quote.Days),
	})
	if err != nil {
		s.logger.Error("Payment failed", map[string]interface{}{
			"renter_id": renterID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	if !result.Succeeded() {
		s.logger.Warn("Payment declined", map[string]interface{}{
			"renter_id": renterID,
			"message":   result.Message,
		})
		return nil, domain.ErrPaymentDeclined
	}

	// Шаг 5: запись бронирования
	booking := &domain.Booking{
		CarID:           req.CarID,
		RenterID:        renterID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          domain.BookingStatusPending,
		TotalAmount:     quote.TotalAmount,
		SecurityDeposit: domain.SecurityDeposit,
	}

	if err := booking.Validate(); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.Error("Failed to create booking", map[string]interface{}{
			"renter_id": renterID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("Booking created", map[string]interface{}{
		"booking_id":   booking.ID,
		"total_amount": booking.TotalAmount,
		"provider_ref": result.ProviderRef,
	})

	return booking, nil
}

// GetQuote возвращает расчет стоимости без проведения бронирования
func (s *Service) GetQuote(ctx context.Context, carID uuid.UUID, start, end time.Time) (*Quote, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	car.Pricing, err = s.pricingRepo.GetByCarID(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing plans: %w", err)
	}
	return s.quote(car, start, end), nil
}

// MyBookings возвращает бронирования арендатора вместе с данными автомобилей
func (s *Service) MyBookings(ctx context.Context, renterID uuid.UUID) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.GetByRenterID(ctx, renterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get renter bookings: %w", err)
	}
	if err := s.attachCars(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// HostBookings возвращает бронирования автомобилей владельца
func (s *Service) HostBookings(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host bookings: %w", err)
	}
	if err := s.attachCars(ctx, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// attachCars подгружает автомобили с тарифами и медиа для списка бронирований.
// Автомобиль, который не удалось найти, оставляет поле Car пустым.
func (s *Service) attachCars(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	carIDs := make([]uuid.UUID, 0, len(bookings))
	seen := make(map[uuid.UUID]bool, len(bookings))
	for _, b := range bookings {
		if !seen[b.CarID] {
			seen[b.CarID] = true
			carIDs = append(carIDs, b.CarID)
		}
	}

	pricing, err := s.pricingRepo.GetByCarIDs(ctx, carIDs)
	if err != nil {
		return fmt.Errorf("failed to load pricing plans: %w", err)
	}
	media, err := s.mediaRepo.GetByCarIDs(ctx, carIDs)
	if err != nil {
		return fmt.Errorf("failed to load car media: %w", err)
	}

	cars := make(map[uuid.UUID]*domain.Car, len(carIDs))
	for _, id := range carIDs {
		car, err := s.carRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("failed to load car for booking", map[string]interface{}{
				"car_id": id.String(),
				"error":  err.Error(),
			})
			continue
		}
		car.Pricing = pricing[id]
		car.Media = media[id]
		cars[id] = car
	}

	for _, b := range bookings {
		b.Car = cars[b.CarID]
	}
	return nil
}

// Accept подтверждает бронирование владельцем: pending -> active
func (s *Service) Accept(ctx context.Context, ownerID, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.hostTransition(ctx, ownerID, bookingID, domain.BookingStatusActive)
}

// Reject отклоняет бронирование владельцем: pending -> cancelled
func (s *Service) Reject(ctx context.Context, ownerID, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.hostTransition(ctx, ownerID, bookingID, domain.BookingStatusCancelled)
}

// hostTransition применяет переход статуса от имени владельца автомобиля.
// Менять статус может только владелец, и только по таблице переходов.
func (s *Service) hostTransition(ctx context.Context, ownerID, bookingID uuid.UUID, to domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.ErrNotCarOwner
	}

	if err := booking.Transition(to); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	s.logger.Info("Booking status updated", map[string]interface{}{
		"booking_id": booking.ID,
		"status":     booking.Status,
	})

	return booking, nil
}
