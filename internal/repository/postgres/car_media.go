package postgres

import (
	"context"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// carMediaRepository - PostgreSQL реализация CarMediaRepository
type carMediaRepository struct {
	db *pgxpool.Pool
}

// NewCarMediaRepository создает новый экземпляр carMediaRepository
func NewCarMediaRepository(db *pgxpool.Pool) repository.CarMediaRepository {
	return &carMediaRepository{db: db}
}

func (r *carMediaRepository) Create(ctx context.Context, media *domain.CarMedia) error {
	query := `
		INSERT INTO car_media (id, car_id, media_type, url, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	media.ID = uuid.New()
	media.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		media.ID,
		media.CarID,
		media.MediaType,
		media.URL,
		media.Position,
		media.CreatedAt,
	)

	return err
}

func (r *carMediaRepository) GetByCarID(ctx context.Context, carID uuid.UUID) ([]*domain.CarMedia, error) {
	query := `
		SELECT id, car_id, media_type, url, position, created_at
		FROM car_media
		WHERE car_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []*domain.CarMedia
	for rows.Next() {
		m := &domain.CarMedia{}
		if err := rows.Scan(&m.ID, &m.CarID, &m.MediaType, &m.URL, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}

	return media, rows.Err()
}

func (r *carMediaRepository) GetByCarIDs(ctx context.Context, carIDs []uuid.UUID) (map[uuid.UUID][]*domain.CarMedia, error) {
	if len(carIDs) == 0 {
		return map[uuid.UUID][]*domain.CarMedia{}, nil
	}

	query := `
		SELECT id, car_id, media_type, url, position, created_at
		FROM car_media
		WHERE car_id = ANY($1)
		ORDER BY position ASC
	`

	rows, err := r.db.Query(ctx, query, carIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]*domain.CarMedia, len(carIDs))
	for rows.Next() {
		m := &domain.CarMedia{}
		if err := rows.Scan(&m.ID, &m.CarID, &m.MediaType, &m.URL, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		result[m.CarID] = append(result[m.CarID], m)
	}

	return result, rows.Err()
}
