package postgres

import (
	"context"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pricingPlanRepository - PostgreSQL реализация PricingPlanRepository
type pricingPlanRepository struct {
	db *pgxpool.Pool
}

// NewPricingPlanRepository создает новый экземпляр pricingPlanRepository
func NewPricingPlanRepository(db *pgxpool.Pool) repository.PricingPlanRepository {
	return &pricingPlanRepository{db: db}
}

func (r *pricingPlanRepository) Create(ctx context.Context, plan *domain.PricingPlan) error {
	query := `
		INSERT INTO pricing_plans (id, car_id, price_per_day, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	plan.ID = uuid.New()
	plan.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		plan.ID,
		plan.CarID,
		plan.PricePerDay,
		plan.Currency,
		plan.CreatedAt,
	)

	return err
}

func (r *pricingPlanRepository) GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.PricingPlan, error) {
	query := `
		SELECT id, car_id, price_per_day, currency, created_at
		FROM pricing_plans
		WHERE car_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.PricingPlan
	for rows.Next() {
		plan := &domain.PricingPlan{}
		if err := rows.Scan(&plan.ID, &plan.CarID, &plan.PricePerDay, &plan.Currency, &plan.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (r *pricingPlanRepository) GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.PricingPlan, error) {
	if len(carIDs) == 0 {
		return map[uuid.UUID][]*domain.PricingPlan{}, nil
	}

	query := `
		SELECT id, car_id, price_per_day, currency, created_at
		FROM pricing_plans
		WHERE car_id = ANY($1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, carIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*domain.PricingPlan, len(carIDs))
	for rows.Next() {
		plan := &domain.PricingPlan{}
		if err := rows.Scan(&plan.ID, &plan.CarID, &plan.PricePerDay, &plan.Currency, &plan.CreatedAt); err != nil {
			return nil, err
		}
		result[plan.CarID] = append(result[plan.CarID], plan)
	}

	return result, rows.Err()
}
