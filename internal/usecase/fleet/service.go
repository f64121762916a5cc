package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/infrastructure/storage"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
)

// ListingImage - изображение, загружаемое вместе с объявлением
type ListingImage struct {
	Data        []byte
	ContentType string
}

// CreateListingRequest - новое объявление: автомобиль, тариф и фотографии
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
	PricePerDay        int      `json:"price_per_day" validate:"required,min=1"` // в минорных единицах
	Currency           string   `json:"currency,omitempty"`
	Images             []ListingImage
}

// Service содержит бизнес-логику управления автопарком владельца
type Service struct {
	carRepo repository.CarRepository
	storage storage.Client
	bucket  string
	logger  logger.Logger
}

// NewService создает новый экземпляр FleetService
func NewService(
	carRepo repository.CarRepository,
	storageClient storage.Client,
	bucket string,
	logger logger.Logger,
) *Service {
	return &Service{
		carRepo: carRepo,
		storage: storageClient,
		bucket:  bucket,
		logger:  logger,
	}
}

// CreateListing публикует объявление владельца.
// Файлы загружаются до транзакции; строки cars, pricing_plans и car_media
// пишутся атомарно - либо появляется полное объявление, либо ничего.
func (s *Service) CreateListing(ctx context.Context, ownerID uuid.UUID, req *CreateListingRequest) (*domain.Car, error) {
	s.logger.Info("Creating car listing", map[string]interface{}{
		"owner_id":            ownerID,
		"registration_number": req.RegistrationNumber,
	})

	car := &domain.Car{
		OwnerID:            ownerID,
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
		Status:             domain.CarStatusActive,
		Features:           req.Features,
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if req.PricePerDay <= 0 {
		return nil, domain.ErrInvalidPricingData
	}

	// Проверяем уникальность гос. номера до загрузки файлов
	existing, err := s.carRepo.GetByRegistrationNumber(ctx, car.RegistrationNumber)
	if err != nil && err != domain.ErrCarNotFound {
		return nil, fmt.Errorf("failed to check registration number: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrCarAlreadyExists
	}

	// Загружаем фотографии
	media := make([]*domain.CarMedia, 0, len(req.Images))
	ts := time.Now().UnixMilli()
	for i, img := range req.Images {
		url, err := s.storage.Upload(ctx,
			s.bucket,
			fmt.Sprintf("%s/%d_%d.jpg", ownerID, ts, i),
			img.Data,
			img.ContentType,
		)
		if err != nil {
			s.logger.Error("Failed to upload car image", map[string]interface{}{
				"owner_id": ownerID,
				"position": i,
				"error":    err.Error(),
			})
			return nil, fmt.Errorf("failed to upload car image: %w", err)
		}
		media = append(media, &domain.CarMedia{
			MediaType: domain.MediaTypeImage,
			URL:       url,
			Position:  i,
		})
	}

	plan := &domain.PricingPlan{
		PricePerDay: req.PricePerDay,
		Currency:    req.Currency,
	}
	if plan.Currency == "" {
		plan.Currency = "USD"
	}

	if err := s.carRepo.CreateListing(ctx, car, plan, media); err != nil {
		s.logger.Error("Failed to create listing", map[string]interface{}{
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	car.Pricing = []*domain.PricingPlan{plan}
	car.Media = media

	s.logger.Info("Car listing created", map[string]interface{}{
		"car_id":   car.ID,
		"owner_id": ownerID,
	})

	return car, nil
}

// MyCars возвращает автомобили владельца
func (s *Service) MyCars(ctx context.Context, ownerID uuid.UUID) ([]*domain.Car, error) {
	cars, err := s.carRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner cars: %w", err)
	}
	return cars, nil
}

// SetStatus меняет статус автомобиля владельца.
// Чужой автомобиль трогать нельзя.
func (s *Service) SetStatus(ctx context.Context, ownerID, carID uuid.UUID, status domain.CarStatus) error {
	switch status {
	case domain.CarStatusActive, domain.CarStatusInactive, domain.CarStatusMaintenance:
	default:
		return domain.ErrInvalidCarData
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if car.OwnerID != ownerID {
		return domain.ErrNotCarOwner
	}

	if err := s.carRepo.UpdateStatus(ctx, carID, status); err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}

	s.logger.Info("Car status updated", map[string]interface{}{
		"car_id": carID,
		"status": status,
	})

	return nil
}
