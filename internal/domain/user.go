package domain

import (
	"time"

	"github.com/google/uuid"
)

// User - центральная сущность системы: профиль аутентифицированного принципала.
// Пользователь арендует автомобили (renter) и/или сдает их (owner/host).
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Никогда не возвращаем в JSON
	FullName     string     `json:"full_name,omitempty"`
	DOB          string     `json:"dob,omitempty"` // формат yyyy-MM-dd
	PhoneNumber  string     `json:"phone_number,omitempty"`
	IsOwner      bool       `json:"is_owner"`
	Address      string     `json:"address,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	Pincode      string     `json:"pincode,omitempty"`

	OnboardingCompleted bool `json:"onboarding_completed"`

	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Validate проверяет корректность данных пользователя
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidEmail
	}
	return nil
}
