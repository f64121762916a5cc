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

const bookingColumns = `id, car_id, renter_id, start_time, end_time, status,
		total_amount, security_deposit, late_fee, created_at, updated_at`

// bookingRepository - PostgreSQL реализация BookingRepository
type bookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository создает новый экземпляр bookingRepository
func NewBookingRepository(db *pgxpool.Pool) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID,
		&b.CarID,
		&b.RenterID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.TotalAmount,
		&b.SecurityDeposit,
		&b.LateFee,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, car_id, renter_id, start_time, end_time, status,
			total_amount, security_deposit, late_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CarID,
		booking.RenterID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.TotalAmount,
		booking.SecurityDeposit,
		booking.LateFee,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

func (r *bookingRepository) GetByRenterID(ctx context.Context, renterID uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE renter_id = $1
		ORDER BY start_time DESC
	`

	rows, err := r.db.Query(ctx, query, renterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByOwnerID возвращает бронирования автомобилей владельца (для входящих
// заявок хоста), новые первыми.
func (r *bookingRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error) {
	query := `
		SELECT b.id, b.car_id, b.renter_id, b.start_time, b.end_time, b.status,
			b.total_amount, b.security_deposit, b.late_fee, b.created_at, b.updated_at
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE c.owner_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func collectBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
