package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const carColumns = `id, owner_id, registration_number, brand, model, year, fuel_type,
		transmission, seats, city, pickup_lat, pickup_lng, status, features, created_at, updated_at`

// carRepository - PostgreSQL реализация CarRepository
type carRepository struct {
	db *pgxpool.Pool
}

// NewCarRepository создает новый экземпляр carRepository
func NewCarRepository(db *pgxpool.Pool) repository.CarRepository {
	return &carRepository{db: db}
}

func scanCar(row pgx.Row) (*domain.Car, error) {
	car := &domain.Car{}
	err := row.Scan(
		&car.ID,
		&car.OwnerID,
		&car.RegistrationNumber,
		&car.Brand,
		&car.Model,
		&car.Year,
		&car.FuelType,
		&car.Transmission,
		&car.Seats,
		&car.City,
		&car.PickupLat,
		&car.PickupLng,
		&car.Status,
		&car.Features,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

// CreateListing атомарно создает объявление: автомобиль, тариф и медиа
// пишутся в одной транзакции, частичных объявлений в БД не остается.
func (r *carRepository) CreateListing(ctx context.Context, car *domain.Car, plan *domain.PricingPlan, media []*domain.CarMedia) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin listing tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	car.ID = uuid.New()
	car.CreatedAt = now
	car.UpdatedAt = now
	car.RegistrationNumber = domain.NormalizeRegistrationNumber(car.RegistrationNumber)

	_, err = tx.Exec(ctx, `
		INSERT INTO cars (id, owner_id, registration_number, brand, model, year, fuel_type,
			transmission, seats, city, pickup_lat, pickup_lng, status, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		car.ID,
		car.OwnerID,
		car.RegistrationNumber,
		car.Brand,
		car.Model,
		car.Year,
		car.FuelType,
		car.Transmission,
		car.Seats,
		car.City,
		car.PickupLat,
		car.PickupLng,
		car.Status,
		car.Features,
		car.CreatedAt,
		car.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert car: %w", err)
	}

	if plan != nil {
		plan.ID = uuid.New()
		plan.CarID = car.ID
		plan.CreatedAt = now

		_, err = tx.Exec(ctx, `
			INSERT INTO pricing_plans (id, car_id, price_per_day, currency, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, plan.ID, plan.CarID, plan.PricePerDay, plan.Currency, plan.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert pricing plan: %w", err)
		}
	}

	for _, m := range media {
		m.ID = uuid.New()
		m.CarID = car.ID
		m.CreatedAt = now

		_, err = tx.Exec(ctx, `
			INSERT INTO car_media (id, car_id, media_type, url, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, m.ID, m.CarID, m.MediaType, m.URL, m.Position, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert car media: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRow(ctx, query, id))
}

func (r *carRepository) GetByRegistrationNumber(ctx context.Context, reg string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE registration_number = $1`
	return scanCar(r.db.QueryRow(ctx, query, domain.NormalizeRegistrationNumber(reg)))
}

func (r *carRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCars(rows)
}

func (r *carRepository) ListActive(ctx context.Context, limit, offset int) ([]*domain.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, domain.CarStatusActive, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCars(rows)
}

func (r *carRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	query := `
		UPDATE cars
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}

	return nil
}

func collectCars(rows pgx.Rows) ([]*domain.Car, error) {
	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}
