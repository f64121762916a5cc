package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/redis"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// CarRepository добавляет кэширование каталога к car repository.
// Кэшируется только публичный список активных автомобилей - самый частый
// запрос витрины; записи владельца каждый раз идут в БД.
type CarRepository struct {
	repo  repository.CarRepository
	cache *redis.Client
}

// NewCarRepository создает новый кэшируемый car repository
func NewCarRepository(repo repository.CarRepository, cache *redis.Client) *CarRepository {
	return &CarRepository{
		repo:  repo,
		cache: cache,
	}
}

// ListActive возвращает активные автомобили каталога (с кэшированием)
func (r *CarRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	cacheKey := fmt.Sprintf("%sactive:%d:%d", catalogCachePrefix, limit, offset)

	// 1. Проверяем кэш
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var cars []*domain.Car
		if err := json.Unmarshal([]byte(cached), &cars); err == nil {
			return cars, nil
		}
		// Битую запись игнорируем и идем в БД
	} else if err != redisv9.Nil {
		// Ошибка кэша не критична - продолжаем работу с БД
	}

	// 2. Cache miss - идем в БД
	cars, err := r.repo.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш (ошибку записи игнорируем)
	if data, err := json.Marshal(cars); err == nil {
		_ = r.cache.Set(ctx, cacheKey, string(data), catalogCacheTTL)
	}

	return cars, nil
}

// CreateListing создает объявление и инвалидирует кэш каталога
func (r *CarRepository) CreateListing(ctx context.Context, car *domain.Car, plan *domain.PricingPlan, media []*domain.CarMedia) error {
	if err := r.repo.CreateListing(ctx, car, plan, media); err != nil {
		return err
	}
	r.invalidateCatalog(ctx)
	return nil
}

// UpdateStatus меняет статус автомобиля и инвалидирует кэш каталога
func (r *CarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	if err := r.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidateCatalog(ctx)
	return nil
}

// GetByID возвращает автомобиль по ID (без кэширования)
func (r *CarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	return r.repo.GetByID(ctx, id)
}

// GetByRegistrationNumber возвращает автомобиль по гос. номеру (без кэширования)
func (r *CarRepository) GetByRegistrationNumber(ctx context.Context, reg string) (*domain.Car, error) {
	return r.repo.GetByRegistrationNumber(ctx, reg)
}

// GetByOwnerID возвращает автомобили владельца (без кэширования)
func (r *CarRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Car, error) {
	return r.repo.GetByOwnerID(ctx, ownerID)
}

// invalidateCatalog сбрасывает все закэшированные страницы каталога
func (r *CarRepository) invalidateCatalog(ctx context.Context) {
	pattern := catalogCachePrefix + "*"

	iter := r.cache.GetClient().Scan(ctx, 0, pattern, 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil {
		return
	}

	if len(keys) > 0 {
		_ = r.cache.Del(ctx, keys...)
	}
}
