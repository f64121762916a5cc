package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/infrastructure/payment"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingRepository - мок репозитория бронирований
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByRenterID(ctx context.Context, renterID uuid.UUID) ([]*domain.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockCarRepository - мок репозитория автомобилей
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) CreateListing(ctx context.Context, car *domain.Car, plan *domain.PricingPlan, media []*domain.CarMedia) error {
	args := m.Called(ctx, car, plan, media)
	return args.Error(0)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepository) GetByRegistrationNumber(ctx context.Context, reg string) (*domain.Car, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Car, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

func (m *MockCarRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

func (m *MockCarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockPricingPlanRepository - мок репозитория тарифов
type MockPricingPlanRepository struct {
	mock.Mock
}

func (m *MockPricingPlanRepository) Create(ctx context.Context, plan *domain.PricingPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPricingPlanRepository) GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.PricingPlan, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PricingPlan), args.Error(1)
}

func (m *MockPricingPlanRepository) GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.PricingPlan, error) {
	args := m.Called(ctx, carIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*domain.PricingPlan), args.Error(1)
}

// MockKYCGate - мок проверки допуска по верификации
type MockKYCGate struct {
	mock.Mock
}

func (m *MockKYCGate) IsApproved(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockPaymentProvider - мок платежного провайдера
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Charge(ctx context.Context, req *payment.ChargeRequest) (*payment.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeResult), args.Error(1)
}

func (m *MockPaymentProvider) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCarMediaRepository - мок репозитория медиа автомобилей
type MockCarMediaRepository struct {
	mock.Mock
}

func (m *MockCarMediaRepository) Create(ctx context.Context, media *domain.CarMedia) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockCarMediaRepository) GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.CarMedia, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CarMedia), args.Error(1)
}

func (m *MockCarMediaRepository) GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.CarMedia, error) {
	args := m.Called(ctx, carIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*domain.CarMedia), args.Error(1)
}

type bookingMocks struct {
	bookingRepo *MockBookingRepository
	carRepo     *MockCarRepository
	pricingRepo *MockPricingPlanRepository
	mediaRepo   *MockCarMediaRepository
	kycGate     *MockKYCGate
	payments    *MockPaymentProvider
}

func newTestService() (*Service, *bookingMocks) {
	m := &bookingMocks{
		bookingRepo: new(MockBookingRepository),
		carRepo:     new(MockCarRepository),
		pricingRepo: new(MockPricingPlanRepository),
		mediaRepo:   new(MockCarMediaRepository),
		kycGate:     new(MockKYCGate),
		payments:    new(MockPaymentProvider),
	}
	svc := NewService(m.bookingRepo, m.carRepo, m.pricingRepo, m.mediaRepo, m.kycGate, m.payments, logger.NewNoop())
	return svc, m
}

func testCar(ownerID uuid.UUID, pricePerDay int) *domain.Car {
	return &domain.Car{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		RegistrationNumber: "KA01AB1234",
		Brand:              "Toyota",
		Model:              "Camry",
		Seats:              5,
		Status:             domain.CarStatusActive,
		Pricing: []*domain.PricingPlan{
			{PricePerDay: pricePerDay, Currency: "USD"},
		},
	}
}

func (m *bookingMocks) expectCarWithRate(car *domain.Car) {
	m.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
	m.pricingRepo.On("GetByCarID", mock.Anything, car.ID).Return(car.Pricing, nil)
}

func TestService_Create(t *testing.T) {
	renterID := uuid.New()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		renterID    uuid.UUID
		start       time.Time
		end         time.Time
		pricePerDay int
		setup       func(*bookingMocks, *domain.Car)
		wantErr     error
		wantTotal   int
	}{
		{
			name:        "успешное бронирование: 100 в день на 3 дня + депозит 500",
			renterID:    renterID,
			start:       start,
			end:         start.Add(72 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(true, nil)
				m.payments.On("Charge", mock.Anything, mock.AnythingOfType("*payment.ChargeRequest")).
					Return(&payment.ChargeResult{Status: payment.StatusSucceeded, ProviderRef: "ch_1"}, nil)
				m.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)
			},
			wantTotal: 800,
		},
		{
			name:        "окно меньше суток тарифицируется одним днем",
			renterID:    renterID,
			start:       start,
			end:         start.Add(5 * time.Hour),
			pricePerDay: 250,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(true, nil)
				m.payments.On("Charge", mock.Anything, mock.AnythingOfType("*payment.ChargeRequest")).
					Return(&payment.ChargeResult{Status: payment.StatusSucceeded}, nil)
				m.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)
			},
			wantTotal: 750,
		},
		{
			name:        "без авторизации бронирование не создается",
			renterID:    uuid.Nil,
			start:       start,
			end:         start.Add(24 * time.Hour),
			pricePerDay: 100,
			setup:       func(m *bookingMocks, car *domain.Car) {},
			wantErr:     domain.ErrUnauthorized,
		},
		{
			name:        "без одобренной верификации оплата не запускается",
			renterID:    renterID,
			start:       start,
			end:         start.Add(24 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(false, nil)
			},
			wantErr: domain.ErrKYCNotApproved,
		},
		{
			name:        "ошибка проверки верификации не означает отказ",
			renterID:    renterID,
			start:       start,
			end:         start.Add(24 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(false, errors.New("db down"))
			},
		},
		{
			name:        "отклоненный платеж: бронирование не сохраняется",
			renterID:    renterID,
			start:       start,
			end:         start.Add(48 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(true, nil)
				m.payments.On("Charge", mock.Anything, mock.AnythingOfType("*payment.ChargeRequest")).
					Return(&payment.ChargeResult{Status: payment.StatusDeclined, Message: "insufficient funds"}, nil)
			},
			wantErr: domain.ErrPaymentDeclined,
		},
		{
			name:        "транспортная ошибка платежа: бронирование не сохраняется",
			renterID:    renterID,
			start:       start,
			end:         start.Add(48 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				m.expectCarWithRate(car)
				m.kycGate.On("IsApproved", mock.Anything, renterID).Return(true, nil)
				m.payments.On("Charge", mock.Anything, mock.AnythingOfType("*payment.ChargeRequest")).
					Return(nil, errors.New("connection refused"))
			},
			wantErr: domain.ErrPaymentFailed,
		},
		{
			name:        "неактивный автомобиль нельзя забронировать",
			renterID:    renterID,
			start:       start,
			end:         start.Add(24 * time.Hour),
			pricePerDay: 100,
			setup: func(m *bookingMocks, car *domain.Car) {
				car.Status = domain.CarStatusMaintenance
				m.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
			},
			wantErr: domain.ErrCarNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService()
			car := testCar(uuid.New(), tt.pricePerDay)
			tt.setup(m, car)

			booking, err := svc.Create(context.Background(), tt.renterID, &CreateRequest{
				CarID:     car.ID,
				StartTime: tt.start,
				EndTime:   tt.end,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, booking)
			} else if tt.wantTotal == 0 {
				assert.Error(t, err)
				assert.Nil(t, booking)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, booking.TotalAmount)
				assert.Equal(t, domain.SecurityDeposit, booking.SecurityDeposit)
				assert.Equal(t, domain.BookingStatusPending, booking.Status)
			}

			// Неуспешный путь не должен оставлять следов в БД
			m.bookingRepo.AssertExpectations(t)
			m.payments.AssertExpectations(t)
			if tt.wantErr != nil || tt.wantTotal == 0 {
				m.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestService_Create_OverlappingWindowsAllowed(t *testing.T) {
	// Проверка пересечений окон не выполняется: два бронирования одного
	// автомобиля на одно и то же окно оба проходят.
	svc, m := newTestService()
	renterID := uuid.New()
	car := testCar(uuid.New(), 100)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	m.expectCarWithRate(car)
	m.kycGate.On("IsApproved", mock.Anything, renterID).Return(true, nil)
	m.payments.On("Charge", mock.Anything, mock.AnythingOfType("*payment.ChargeRequest")).
		Return(&payment.ChargeResult{Status: payment.StatusSucceeded}, nil)
	m.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	req := &CreateRequest{CarID: car.ID, StartTime: start, EndTime: start.Add(48 * time.Hour)}

	first, err := svc.Create(context.Background(), renterID, req)
	assert.NoError(t, err)

	second, err := svc.Create(context.Background(), renterID, req)
	assert.NoError(t, err)

	// Каждый вызов создает отдельное бронирование
	m.bookingRepo.AssertNumberOfCalls(t, "Create", 2)
	assert.Equal(t, first.TotalAmount, second.TotalAmount)
}

func TestService_HostTransitions(t *testing.T) {
	ownerID := uuid.New()
	otherOwnerID := uuid.New()

	tests := []struct {
		name       string
		actorID    uuid.UUID
		fromStatus domain.BookingStatus
		action     func(*Service, context.Context, uuid.UUID, uuid.UUID) (*domain.Booking, error)
		wantStatus domain.BookingStatus
		wantErr    error
	}{
		{
			name:       "владелец подтверждает: pending -> active",
			actorID:    ownerID,
			fromStatus: domain.BookingStatusPending,
			action:     (*Service).Accept,
			wantStatus: domain.BookingStatusActive,
		},
		{
			name:       "владелец отклоняет: pending -> cancelled",
			actorID:    ownerID,
			fromStatus: domain.BookingStatusPending,
			action:     (*Service).Reject,
			wantStatus: domain.BookingStatusCancelled,
		},
		{
			name:       "чужой владелец не может подтвердить",
			actorID:    otherOwnerID,
			fromStatus: domain.BookingStatusPending,
			action:     (*Service).Accept,
			wantErr:    domain.ErrNotCarOwner,
		},
		{
			name:       "завершенное бронирование не подтверждается",
			actorID:    ownerID,
			fromStatus: domain.BookingStatusCompleted,
			action:     (*Service).Accept,
			wantErr:    domain.ErrInvalidStatusTransition,
		},
		{
			name:       "отмененное бронирование не отклоняется повторно",
			actorID:    ownerID,
			fromStatus: domain.BookingStatusCancelled,
			action:     (*Service).Reject,
			wantErr:    domain.ErrInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService()
			car := testCar(ownerID, 100)
			booking := &domain.Booking{
				ID:       uuid.New(),
				CarID:    car.ID,
				RenterID: uuid.New(),
				Status:   tt.fromStatus,
			}

			m.bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
			m.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)
			if tt.wantErr == nil {
				m.bookingRepo.On("UpdateStatus", mock.Anything, booking.ID, tt.wantStatus).Return(nil)
			}

			result, err := tt.action(svc, context.Background(), tt.actorID, booking.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, result.Status)
			}
			m.bookingRepo.AssertExpectations(t)
		})
	}
}

func TestService_MyBookings(t *testing.T) {
	// Два бронирования одного автомобиля: карточка подгружается один раз
	// и заполняется тарифами и медиа.
	svc, m := newTestService()
	renterID := uuid.New()
	car := testCar(uuid.New(), 100)

	bookings := []*domain.Booking{
		{ID: uuid.New(), CarID: car.ID, RenterID: renterID, Status: domain.BookingStatusActive},
		{ID: uuid.New(), CarID: car.ID, RenterID: renterID, Status: domain.BookingStatusCompleted},
	}
	plans := []*domain.PricingPlan{{ID: uuid.New(), CarID: car.ID, PricePerDay: 100, Currency: "USD"}}
	media := []*domain.CarMedia{{ID: uuid.New(), CarID: car.ID, URL: "https://cdn.example.com/car.jpg"}}

	m.bookingRepo.On("GetByRenterID", mock.Anything, renterID).Return(bookings, nil)
	m.pricingRepo.On("GetByCarIDs", mock.Anything, []uuid.UUID{car.ID}).
		Return(map[uuid.UUID][]*domain.PricingPlan{car.ID: plans}, nil)
	m.mediaRepo.On("GetByCarIDs", mock.Anything, []uuid.UUID{car.ID}).
		Return(map[uuid.UUID][]*domain.CarMedia{car.ID: media}, nil)
	m.carRepo.On("GetByID", mock.Anything, car.ID).Return(car, nil)

	result, err := svc.MyBookings(context.Background(), renterID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	for _, b := range result {
		assert.NotNil(t, b.Car)
		assert.Equal(t, plans, b.Car.Pricing)
		assert.Equal(t, media, b.Car.Media)
	}
	m.carRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestService_GetQuote(t *testing.T) {
	svc, m := newTestService()
	car := testCar(uuid.New(), 1200)
	m.expectCarWithRate(car)

	start := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)
	quote, err := svc.GetQuote(context.Background(), car.ID, start, start.Add(5*24*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, 5, quote.Days)
	assert.Equal(t, 1200, quote.DailyRate)
	assert.Equal(t, 6000, quote.RentalAmount)
	assert.Equal(t, domain.SecurityDeposit, quote.SecurityDeposit)
	assert.Equal(t, 6500, quote.TotalAmount)
	assert.Equal(t, "USD", quote.Currency)
}
