package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus представляет статус бронирования
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Создано, ждет решения владельца
	BookingStatusActive    BookingStatus = "active"    // Подтверждено владельцем
	BookingStatusCompleted BookingStatus = "completed" // Завершено (внешним процессом)
	BookingStatusCancelled BookingStatus = "cancelled" // Отклонено или отменено
	BookingStatusDisputed  BookingStatus = "disputed"  // Открыт спор
)

// SecurityDeposit - фиксированный возвратный депозит, добавляется к каждому
// бронированию (минорные единицы).
const SecurityDeposit = 500

// allowedTransitions задает разрешенные переходы статусов бронирования.
// Терминальные статусы (completed, cancelled) переходов не имеют.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted, BookingStatusDisputed, BookingStatusCancelled},
	BookingStatusDisputed:  {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransition проверяет, разрешен ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking - бронирование автомобиля арендатором на временное окно
type Booking struct {
	ID              uuid.UUID     `json:"id"`
	CarID           uuid.UUID     `json:"car_id"`
	RenterID        uuid.UUID     `json:"renter_id"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          BookingStatus `json:"status"`
	TotalAmount     int           `json:"total_amount"`     // минорные единицы
	SecurityDeposit int           `json:"security_deposit"` // минорные единицы
	LateFee         *int          `json:"late_fee,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Связанные данные (не хранятся в таблице bookings, заполняются при необходимости)
	Car    *Car  `json:"car,omitempty"`
	Renter *User `json:"renter,omitempty"`
}

// RentalDays вычисляет тарифицируемое число дней окна аренды.
// Любая неположительная или меньшая суток разница округляется до 1 дня -
// бронирование никогда не тарифицируется нулем.
func RentalDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Transition применяет переход статуса, проверяя его по таблице переходов
func (b *Booking) Transition(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return ErrInvalidStatusTransition
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return nil
}

// IsUpcoming возвращает true для бронирований, видимых во вкладке "предстоящие"
func (b *Booking) IsUpcoming() bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusActive, BookingStatusDisputed:
		return true
	}
	return false
}

// Validate проверяет корректность бронирования
func (b *Booking) Validate() error {
	if b.CarID == uuid.Nil || b.RenterID == uuid.Nil {
		return ErrInvalidBookingData
	}
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return ErrInvalidBookingData
	}
	return nil
}
