package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kycColumns = `id, user_id, document_type, front_image_url, back_image_url, status, created_at, updated_at`

// kycRepository - PostgreSQL реализация KYCRepository
type kycRepository struct {
	db *pgxpool.Pool
}

// NewKYCRepository создает новый экземпляр kycRepository
func NewKYCRepository(db *pgxpool.Pool) repository.KYCRepository {
	return &kycRepository{db: db}
}

func scanKYCRecord(row pgx.Row) (*domain.KYCRecord, error) {
	rec := &domain.KYCRecord{}
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.DocumentType,
		&rec.FrontImageURL,
		&rec.BackImageURL,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKYCNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *kycRepository) Create(ctx context.Context, record *domain.KYCRecord) error {
	query := `
		INSERT INTO kyc_records (id, user_id, document_type, front_image_url, back_image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.DocumentType,
		record.FrontImageURL,
		record.BackImageURL,
		record.Status,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

// GetLatestByUser возвращает самую свежую заявку пользователя.
// Порядок created_at DESC - часть контракта: именно последняя заявка
// определяет допуск к бронированию.
func (r *kycRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.KYCRecord, error) {
	query := `
		SELECT ` + kycColumns + `
		FROM kyc_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanKYCRecord(r.db.QueryRow(ctx, query, userID))
}

func (r *kycRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.KYCRecord, error) {
	query := `
		SELECT ` + kycColumns + `
		FROM kyc_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.KYCRecord
	for rows.Next() {
		rec, err := scanKYCRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *kycRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) error {
	query := `
		UPDATE kyc_records
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrKYCNotFound
	}

	return nil
}
