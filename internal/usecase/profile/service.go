package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
)

// Роли, выбираемые на онбординге
const (
	RoleRenter = "renter"
	RoleOwner  = "owner"
)

// OnboardingRequest - данные, заполняемые при онбординге
type OnboardingRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"` // yyyy-MM-dd
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role" validate:"required,oneof=renter owner"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
}

// Service содержит бизнес-логику профиля пользователя
type Service struct {
	userRepo repository.UserRepository
	logger   logger.Logger
}

// NewService создает новый экземпляр ProfileService
func NewService(userRepo repository.UserRepository, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Get возвращает профиль пользователя
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return user, nil
}

// CompleteOnboarding заполняет профиль и отмечает онбординг пройденным.
// Роль owner дает доступ к разделу автопарка.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, req *OnboardingRequest) (*domain.User, error) {
	s.logger.Info("Completing onboarding", map[string]interface{}{
		"user_id": userID,
		"role":    req.Role,
	})

	if req.FullName == "" {
		return nil, domain.ErrInvalidUserData
	}
	if req.Role != RoleRenter && req.Role != RoleOwner {
		return nil, domain.ErrInvalidUserData
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, domain.ErrInvalidUserData
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	user.DOB = req.DateOfBirth
	user.PhoneNumber = req.PhoneNumber
	user.IsOwner = req.Role == RoleOwner
	user.Address = req.Address
	user.City = req.City
	user.State = req.State
	user.Pincode = req.Pincode
	user.OnboardingCompleted = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Onboarding completed", map[string]interface{}{
		"user_id":  userID,
		"is_owner": user.IsOwner,
	})

	user.PasswordHash = ""

	return user, nil
}
