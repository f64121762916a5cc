package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CarStatus представляет статус жизненного цикла автомобиля
type CarStatus string

const (
	CarStatusActive      CarStatus = "active"      // Доступен для бронирования
	CarStatusInactive    CarStatus = "inactive"    // Временно снят владельцем
	CarStatusMaintenance CarStatus = "maintenance" // На обслуживании
	CarStatusSuspended   CarStatus = "suspended"   // Заблокирован администратором
)

// Car - автомобиль, выставленный владельцем на аренду.
// ВАЖНО: Автомобиль ОБЯЗАТЕЛЬНО привязан к владельцу (OwnerID NOT NULL)
type Car struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id"`            // ОБЯЗАТЕЛЬНАЯ связь с User
	RegistrationNumber string    `json:"registration_number"` // Гос. номер (уникальный)
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	FuelType           string    `json:"fuel_type"`
	Transmission       string    `json:"transmission"`
	Seats              int       `json:"seats"`
	City               string    `json:"city"`
	PickupLat          *float64  `json:"pickup_lat,omitempty"`
	PickupLng          *float64  `json:"pickup_lng,omitempty"`
	Status             CarStatus `json:"status"`
	Features           []string  `json:"features,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Связанные данные (не хранятся в таблице cars, заполняются при необходимости)
	Owner   *User          `json:"owner,omitempty"`
	Pricing []*PricingPlan `json:"pricing_plans,omitempty"`
	Media   []*CarMedia    `json:"car_media,omitempty"`
}

// NormalizeRegistrationNumber нормализует гос. номер (убирает пробелы, верхний регистр)
func NormalizeRegistrationNumber(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(reg, " ", ""))
}

// DailyRate возвращает цену за день в минорных единицах.
// Авторитетным считается первый тарифный план; без плана цена равна нулю.
func (c *Car) DailyRate() int {
	if len(c.Pricing) == 0 {
		return 0
	}
	return c.Pricing[0].PricePerDay
}

// IsBookable проверяет, доступен ли автомобиль для бронирования
func (c *Car) IsBookable() bool {
	return c.Status == CarStatusActive
}

// Validate проверяет корректность данных автомобиля
func (c *Car) Validate() error {
	if c.OwnerID == uuid.Nil {
		return ErrInvalidCarData
	}
	if c.RegistrationNumber == "" {
		return ErrInvalidRegistration
	}
	c.RegistrationNumber = NormalizeRegistrationNumber(c.RegistrationNumber)
	if len(c.RegistrationNumber) < 4 || len(c.RegistrationNumber) > 20 {
		return ErrInvalidRegistration
	}
	if c.Brand == "" || c.Model == "" {
		return ErrInvalidCarData
	}
	if c.Seats <= 0 {
		return ErrInvalidCarData
	}
	return nil
}
