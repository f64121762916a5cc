package domain

import (
	"time"

	"github.com/google/uuid"
)

// PricingPlan - тариф автомобиля: цена за день и валюта.
// Привязан ровно к одному автомобилю.
type PricingPlan struct {
	ID          uuid.UUID `json:"id"`
	CarID       uuid.UUID `json:"car_id"`
	PricePerDay int       `json:"price_per_day"` // минорные единицы
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate проверяет корректность тарифа
func (p *PricingPlan) Validate() error {
	if p.CarID == uuid.Nil {
		return ErrInvalidPricingData
	}
	if p.PricePerDay < 0 {
		return ErrInvalidPricingData
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	return nil
}
