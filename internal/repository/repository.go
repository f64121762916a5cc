package repository

import (
	"context"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с профилями пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные профиля
	Update(ctx context.Context, user *domain.User) error

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// CarRepository определяет методы для работы с автомобилями
type CarRepository interface {
	// CreateListing атомарно создает автомобиль вместе с тарифом и медиа
	// (одна транзакция: cars + pricing_plans + car_media)
	CreateListing(ctx context.Context, car *domain.Car, plan *domain.PricingPlan, media []*domain.CarMedia) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)

	// GetByRegistrationNumber возвращает автомобиль по гос. номеру
	GetByRegistrationNumber(ctx context.Context, reg string) (*domain.Car, error)

	// GetByOwnerID возвращает все автомобили владельца
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Car, error)

	// ListActive возвращает активные автомобили каталога с пагинацией
	ListActive(ctx context.Context, limit, offset int) ([]*domain.Car, error)

	// UpdateStatus меняет статус жизненного цикла автомобиля
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error
}

// PricingPlanRepository определяет методы для работы с тарифами
type PricingPlanRepository interface {
	// Create создает тариф
	Create(ctx context.Context, plan *domain.PricingPlan) error

	// GetByCarID возвращает тарифы автомобиля (от старых к новым)
	GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.PricingPlan, error)

	// GetByCarIDs возвращает тарифы для набора автомобилей одним запросом
	GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.PricingPlan, error)
}

// CarMediaRepository определяет методы для работы с медиа автомобилей
type CarMediaRepository interface {
	// Create создает запись медиа
	Create(ctx context.Context, media *domain.CarMedia) error

	// GetByCarID возвращает медиа автомобиля упорядоченными по позиции
	GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.CarMedia, error)

	// GetByCarIDs возвращает медиа для набора автомобилей одним запросом
	GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.CarMedia, error)
}

// BookingRepository определяет методы для работы с бронированиями
type BookingRepository interface {
	// Create создает бронирование
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID возвращает бронирование по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// GetByRenterID возвращает бронирования арендатора (новые окна аренды первыми)
	GetByRenterID(ctx context.Context, renterID uuid.UUID) ([]*domain.Booking, error)

	// GetByOwnerID возвращает бронирования автомобилей, принадлежащих владельцу
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error)

	// UpdateStatus меняет статус бронирования
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}

// KYCRepository определяет методы для работы с заявками верификации.
// КОНТРАКТ: GetLatestByUser возвращает самую свежую заявку по created_at DESC -
// именно она считается действующей при проверке допуска к бронированию.
type KYCRepository interface {
	// Create создает заявку
	Create(ctx context.Context, record *domain.KYCRecord) error

	// GetLatestByUser возвращает последнюю заявку пользователя
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.KYCRecord, error)

	// GetByUserID возвращает все заявки пользователя (новые первыми)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.KYCRecord, error)

	// UpdateStatus меняет статус заявки (действие модерации)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) error
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllUserTokens отзывает все токены пользователя
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
