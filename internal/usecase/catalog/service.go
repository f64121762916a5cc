package catalog

import (
	"context"
	"fmt"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service содержит бизнес-логику публичного каталога автомобилей
type Service struct {
	carRepo     repository.CarRepository
	pricingRepo repository.PricingPlanRepository
	mediaRepo   repository.CarMediaRepository
	userRepo    repository.UserRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр CatalogService
func NewService(
	carRepo repository.CarRepository,
	pricingRepo repository.PricingPlanRepository,
	mediaRepo repository.CarMediaRepository,
	userRepo repository.UserRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo:     carRepo,
		pricingRepo: pricingRepo,
		mediaRepo:   mediaRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// ListCars возвращает активные автомобили с тарифами и медиа.
// Тарифы и медиа подтягиваются двумя батч-запросами, не по одному на машину.
func (s *Service) ListCars(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	cars, err := s.carRepo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	if len(cars) == 0 {
		return cars, nil
	}

	carIDs := make([]uuid.UUID, 0, len(cars))
	for _, c := range cars {
		carIDs = append(carIDs, c.ID)
	}

	pricing, err := s.pricingRepo.GetByCarIDs(ctx, carIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing plans: %w", err)
	}

	media, err := s.mediaRepo.GetByCarIDs(ctx, carIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load car media: %w", err)
	}

	for _, c := range cars {
		c.Pricing = pricing[c.ID]
		c.Media = media[c.ID]
	}

	return cars, nil
}

// GetCar возвращает автомобиль каталога с тарифами, медиа и профилем владельца
func (s *Service) GetCar(ctx context.Context, carID uuid.UUID) (*domain.Car, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	car.Pricing, err = s.pricingRepo.GetByCarID(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing plans: %w", err)
	}

	car.Media, err = s.mediaRepo.GetByCarID(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load car media: %w", err)
	}

	owner, err := s.userRepo.GetByID(ctx, car.OwnerID)
	if err != nil {
		// Карточка автомобиля полезна и без профиля владельца
		s.logger.Warn("Failed to load car owner", map[string]interface{}{
			"car_id":   carID,
			"owner_id": car.OwnerID,
			"error":    err.Error(),
		})
	} else {
		owner.PasswordHash = ""
		car.Owner = owner
	}

	return car, nil
}
