package kyc

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

// SubmitRequest - заявка на верификацию с двумя сторонами документа
type SubmitRequest struct {
	DocumentType     domain.DocumentType
	FrontImage       []byte
	BackImage        []byte
	ImageContentType string
}

// StatusResponse - текущее состояние верификации пользователя
type StatusResponse struct {
	Status          domain.KYCStatus  `json:"status"`
	Record          *domain.KYCRecord `json:"record,omitempty"`
	CanBookVehicles bool              `json:"can_book_vehicles"`
}

// Service содержит бизнес-логику верификации личности
type Service struct {
	kycRepo repository.KYCRepository
	storage storage.Client
	bucket  string
	logger  logger.Logger
}

// NewService создает новый экземпляр KYCService
func NewService(
	kycRepo repository.KYCRepository,
	storageClient storage.Client,
	bucket string,
	logger logger.Logger,
) *Service {
	return &Service{
		kycRepo: kycRepo,
		storage: storageClient,
		bucket:  bucket,
		logger:  logger,
	}
}

// IsApproved сообщает, допущен ли пользователь к бронированию.
// Решение принимается строго по последней заявке; при ошибке чтения
// доступ закрыт (ошибка возвращается наверх, а не трактуется как отказ).
func (s *Service) IsApproved(ctx context.Context, userID uuid.UUID) (bool, error) {
	record, err := s.kycRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		if err == domain.ErrKYCNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to get kyc record: %w", err)
	}

	return record.IsApproved(), nil
}

// Status возвращает состояние верификации пользователя.
// Отсутствие заявок - это статус not_submitted, а не ошибка.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*StatusResponse, error) {
	record, err := s.kycRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		if err == domain.ErrKYCNotFound {
			return &StatusResponse{
				Status:          domain.KYCStatusNotSubmitted,
				CanBookVehicles: false,
			}, nil
		}
		return nil, fmt.Errorf("failed to get kyc record: %w", err)
	}

	return &StatusResponse{
		Status:          record.Status,
		Record:          record,
		CanBookVehicles: record.IsApproved(),
	}, nil
}

// Submit загружает обе стороны документа и создает заявку со статусом pending.
// Повторная подача разрешена: новая заявка становится действующей.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req *SubmitRequest) (*domain.KYCRecord, error) {
	s.logger.Info("Submitting KYC documents", map[string]interface{}{
		"user_id": userID,
	})

	if len(req.FrontImage) == 0 || len(req.BackImage) == 0 {
		return nil, domain.ErrInvalidKYCData
	}

	docType := req.DocumentType
	if docType == "" {
		docType = domain.DocumentTypeDrivingLicense
	}

	// Сначала загружаем файлы, затем пишем запись в БД.
	// При сбое на второй загрузке или на insert осиротевший файл
	// остается в хранилище, но незавершенная заявка не появляется.
	ts := time.Now().UnixMilli()
	frontURL, err := s.storage.Upload(ctx,
		s.bucket,
		fmt.Sprintf("%s/%d_front.jpg", userID, ts),
		req.FrontImage,
		req.ImageContentType,
	)
	if err != nil {
		s.logger.Error("Failed to upload front image", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to upload front image: %w", err)
	}

	backURL, err := s.storage.Upload(ctx,
		s.bucket,
		fmt.Sprintf("%s/%d_back.jpg", userID, ts),
		req.BackImage,
		req.ImageContentType,
	)
	if err != nil {
		s.logger.Error("Failed to upload back image", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to upload back image: %w", err)
	}

	record := &domain.KYCRecord{
		UserID:        userID,
		DocumentType:  docType,
		FrontImageURL: frontURL,
		BackImageURL:  backURL,
		Status:        domain.KYCStatusPending,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.kycRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create KYC record", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to create kyc record: %w", err)
	}

	s.logger.Info("KYC submitted", map[string]interface{}{
		"user_id": userID,
		"kyc_id":  record.ID,
	})

	return record, nil
}
