package kyc

import (
	"context"
	"errors"
	"testing"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockKYCRepository - мок репозитория заявок верификации
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) Create(ctx context.Context, record *domain.KYCRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockKYCRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.KYCRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KYCRecord), args.Error(1)
}

func (m *MockKYCRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.KYCRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KYCRecord), args.Error(1)
}

func (m *MockKYCRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockStorageClient - мок blob-хранилища
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucket, path, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestService_IsApproved(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name         string
		mockSetup    func(*MockKYCRepository)
		wantApproved bool
		wantErr      bool
	}{
		{
			name: "последняя заявка одобрена",
			mockSetup: func(m *MockKYCRepository) {
				m.On("GetLatestByUser", mock.Anything, userID).
					Return(&domain.KYCRecord{UserID: userID, Status: domain.KYCStatusApproved}, nil)
			},
			wantApproved: true,
		},
		{
			name: "последняя заявка на рассмотрении",
			mockSetup: func(m *MockKYCRepository) {
				m.On("GetLatestByUser", mock.Anything, userID).
					Return(&domain.KYCRecord{UserID: userID, Status: domain.KYCStatusPending}, nil)
			},
			wantApproved: false,
		},
		{
			name: "последняя заявка отклонена",
			mockSetup: func(m *MockKYCRepository) {
				m.On("GetLatestByUser", mock.Anything, userID).
					Return(&domain.KYCRecord{UserID: userID, Status: domain.KYCStatusRejected}, nil)
			},
			wantApproved: false,
		},
		{
			name: "заявок нет",
			mockSetup: func(m *MockKYCRepository) {
				m.On("GetLatestByUser", mock.Anything, userID).
					Return(nil, domain.ErrKYCNotFound)
			},
			wantApproved: false,
		},
		{
			name: "ошибка чтения возвращается наверх, не трактуется как отказ",
			mockSetup: func(m *MockKYCRepository) {
				m.On("GetLatestByUser", mock.Anything, userID).
					Return(nil, errors.New("db down"))
			},
			wantApproved: false,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockKYCRepository)
			tt.mockSetup(mockRepo)

			svc := NewService(mockRepo, new(MockStorageClient), "kyc-documents", logger.NewNoop())

			approved, err := svc.IsApproved(context.Background(), userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantApproved, approved)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Status(t *testing.T) {
	userID := uuid.New()

	t.Run("без заявок статус not_submitted", func(t *testing.T) {
		mockRepo := new(MockKYCRepository)
		mockRepo.On("GetLatestByUser", mock.Anything, userID).Return(nil, domain.ErrKYCNotFound)

		svc := NewService(mockRepo, new(MockStorageClient), "kyc-documents", logger.NewNoop())

		status, err := svc.Status(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, domain.KYCStatusNotSubmitted, status.Status)
		assert.False(t, status.CanBookVehicles)
		assert.Nil(t, status.Record)
	})

	t.Run("одобренная заявка открывает бронирования", func(t *testing.T) {
		mockRepo := new(MockKYCRepository)
		record := &domain.KYCRecord{UserID: userID, Status: domain.KYCStatusApproved}
		mockRepo.On("GetLatestByUser", mock.Anything, userID).Return(record, nil)

		svc := NewService(mockRepo, new(MockStorageClient), "kyc-documents", logger.NewNoop())

		status, err := svc.Status(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, domain.KYCStatusApproved, status.Status)
		assert.True(t, status.CanBookVehicles)
	})
}

func TestService_Submit(t *testing.T) {
	userID := uuid.New()
	front := []byte("front-image-bytes")
	back := []byte("back-image-bytes")

	t.Run("успешная подача: две загрузки, затем запись pending", func(t *testing.T) {
		mockRepo := new(MockKYCRepository)
		mockStorage := new(MockStorageClient)

		mockStorage.On("Upload", mock.Anything, "kyc-documents", mock.AnythingOfType("string"), front, "image/jpeg").
			Return("https://cdn.example.com/front.jpg", nil)
		mockStorage.On("Upload", mock.Anything, "kyc-documents", mock.AnythingOfType("string"), back, "image/jpeg").
			Return("https://cdn.example.com/back.jpg", nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.KYCRecord")).Return(nil)

		svc := NewService(mockRepo, mockStorage, "kyc-documents", logger.NewNoop())

		record, err := svc.Submit(context.Background(), userID, &SubmitRequest{
			FrontImage:       front,
			BackImage:        back,
			ImageContentType: "image/jpeg",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.KYCStatusPending, record.Status)
		assert.Equal(t, domain.DocumentTypeDrivingLicense, record.DocumentType)
		assert.Equal(t, "https://cdn.example.com/front.jpg", record.FrontImageURL)
		assert.Equal(t, "https://cdn.example.com/back.jpg", record.BackImageURL)
		mockStorage.AssertNumberOfCalls(t, "Upload", 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("сбой загрузки: запись не создается", func(t *testing.T) {
		mockRepo := new(MockKYCRepository)
		mockStorage := new(MockStorageClient)

		mockStorage.On("Upload", mock.Anything, "kyc-documents", mock.AnythingOfType("string"), front, "image/jpeg").
			Return("", errors.New("storage unavailable"))

		svc := NewService(mockRepo, mockStorage, "kyc-documents", logger.NewNoop())

		record, err := svc.Submit(context.Background(), userID, &SubmitRequest{
			FrontImage:       front,
			BackImage:        back,
			ImageContentType: "image/jpeg",
		})

		assert.Error(t, err)
		assert.Nil(t, record)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("пустые изображения отклоняются", func(t *testing.T) {
		svc := NewService(new(MockKYCRepository), new(MockStorageClient), "kyc-documents", logger.NewNoop())

		record, err := svc.Submit(context.Background(), userID, &SubmitRequest{})

		assert.ErrorIs(t, err, domain.ErrInvalidKYCData)
		assert.Nil(t, record)
	})
}
