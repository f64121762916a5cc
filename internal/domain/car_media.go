package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaType представляет тип медиа-файла автомобиля
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// CarMedia - ссылка на загруженный медиа-файл автомобиля.
// Позиция задает порядок показа в галерее.
type CarMedia struct {
	ID        uuid.UUID `json:"id"`
	CarID     uuid.UUID `json:"car_id"`
	MediaType MediaType `json:"media_type"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
