package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYCStatus представляет статус проверки личности
type KYCStatus string

const (
	KYCStatusNotSubmitted KYCStatus = "not_submitted"
	KYCStatusPending      KYCStatus = "pending"
	KYCStatusApproved     KYCStatus = "approved"
	KYCStatusRejected     KYCStatus = "rejected"
)

// DocumentType представляет тип загруженного документа
type DocumentType string

const (
	DocumentTypeDrivingLicense DocumentType = "driving_license"
)

// KYCRecord - заявка на верификацию личности.
// Статус переводится в approved/rejected внешним процессом модерации,
// в приложении автоматических переходов нет.
type KYCRecord struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	DocumentType  DocumentType `json:"document_type"`
	FrontImageURL string       `json:"front_image_url"`
	BackImageURL  string       `json:"back_image_url"`
	Status        KYCStatus    `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsApproved проверяет, одобрена ли заявка.
// Любой статус кроме строго "approved" считается не одобренным.
func (k *KYCRecord) IsApproved() bool {
	return k.Status == KYCStatusApproved
}

// Validate проверяет корректность заявки
func (k *KYCRecord) Validate() error {
	if k.UserID == uuid.Nil {
		return ErrInvalidKYCData
	}
	if k.FrontImageURL == "" || k.BackImageURL == "" {
		return ErrInvalidKYCData
	}
	if k.DocumentType == "" {
		k.DocumentType = DocumentTypeDrivingLicense
	}
	return nil
}
