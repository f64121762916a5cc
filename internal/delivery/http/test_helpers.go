package http

import (
	"context"
	"testing"
	"time"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/jwt"
	"github.com/google/uuid"
)

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string, isOwner bool) *domain.User {
	return &domain.User{
		ID:                  id,
		Email:               email,
		FullName:            "Test User",
		PhoneNumber:         "+7 999 999 99 99",
		IsOwner:             isOwner,
		OnboardingCompleted: true,
		IsActive:            true,
	}
}

// CreateTestCar создает тестовый автомобиль с тарифом
func CreateTestCar(id, ownerID uuid.UUID, pricePerDay int) *domain.Car {
	return &domain.Car{
		ID:                 id,
		OwnerID:            ownerID,
		RegistrationNumber: "KA01AB1234",
		Brand:              "Toyota",
		Model:              "Camry",
		Year:               2022,
		Seats:              5,
		Status:             domain.CarStatusActive,
		Pricing: []*domain.PricingPlan{
			{ID: uuid.New(), CarID: id, PricePerDay: pricePerDay, Currency: "USD"},
		},
	}
}

// CreateTestBooking создает тестовое бронирование
func CreateTestBooking(id, carID, renterID uuid.UUID, status domain.BookingStatus) *domain.Booking {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              id,
		CarID:           carID,
		RenterID:        renterID,
		StartTime:       start,
		EndTime:         start.Add(48 * time.Hour),
		Status:          status,
		TotalAmount:     700,
		SecurityDeposit: domain.SecurityDeposit,
	}
}

// CreateAuthContext создает контекст с claims пользователя для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, isOwner bool) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID:  userID,
		Email:   email,
		IsOwner: isOwner,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// CreateTestJWTToken создает тестовый JWT токен
func CreateTestJWTToken(user *domain.User, secretKey string) (string, error) {
	tokenService := jwt.NewTokenService(secretKey, 15*time.Minute, 7*24*time.Hour)
	tokenPair, err := tokenService.GenerateTokenPair(user)
	if err != nil {
		return "", err
	}
	return tokenPair.AccessToken, nil
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
