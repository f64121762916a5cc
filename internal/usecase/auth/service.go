package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/hash"
	"github.com/YaduEnc/Deehadi/internal/pkg/jwt"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/repository"
	"github.com/google/uuid"
)

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - ответ на вход
type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    string       `json:"expires_at"`
}

// RefreshTokenRequest - запрос на обновление токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest - запрос на выход
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Service содержит бизнес-логику аутентификации
type Service struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	tokenService     *jwt.TokenService
	refreshExpiry    time.Duration
	logger           logger.Logger
}

// NewService создает новый экземпляр AuthService
func NewService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	tokenService *jwt.TokenService,
	refreshExpiry time.Duration,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
		refreshExpiry:    refreshExpiry,
		logger:           logger,
	}
}

// Register регистрирует нового пользователя.
// Профиль создается незаполненным, онбординг проходит отдельным шагом.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	s.logger.Info("Registering new user", map[string]interface{}{
		"email": req.Email,
	})

	// Совпадение паролей проверяем до любых обращений к БД
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	// Проверяем, что пользователь с таким email еще не существует
	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		s.logger.Warn("User already exists", map[string]interface{}{
			"email": req.Email,
		})
		return nil, domain.ErrUserAlreadyExists
	}

	// Хешируем пароль
	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Создаем пользователя
	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	// Валидируем данные пользователя
	if err := user.Validate(); err != nil {
		return nil, err
	}

	// Сохраняем в БД
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return user, nil
}

// Login аутентифицирует пользователя и возвращает JWT токены
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	s.logger.Info("User login attempt", map[string]interface{}{
		"email": req.Email,
	})

	// Находим пользователя по email
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": req.Email,
			})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Проверяем, активен ли пользователь
	if !user.IsActive {
		s.logger.Warn("Login failed: user inactive", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrUserInactive
	}

	// Проверяем пароль
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, domain.ErrInvalidCredentials
	}

	// Генерируем JWT токены
	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate tokens", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	// Сохраняем хеш refresh токена для возможности отзыва
	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		s.logger.Error("Failed to store refresh token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	// Обновляем last_login_at
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("Failed to update last login", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// RefreshToken выдает новую пару токенов по действующему refresh токену.
// Старый refresh токен отзывается (одноразовая ротация).
func (s *Service) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*LoginResponse, error) {
	// Проверяем подпись и срок жизни токена
	claims, err := s.tokenService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	// Проверяем, что токен не отозван
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, jwt.HashToken(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	if !stored.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Отзываем использованный токен и выдаем новую пару
	if err := s.refreshTokenRepo.Revoke(ctx, jwt.HashToken(req.RefreshToken)); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})

	user.PasswordHash = ""

	return &LoginResponse{
		User:         user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Logout отзывает refresh токен сессии
func (s *Service) Logout(ctx context.Context, req *LogoutRequest) error {
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, jwt.HashToken(req.RefreshToken))
	if err != nil {
		if err == domain.ErrInvalidToken {
			// Токен уже не существует - выход идемпотентен
			return nil
		}
		return err
	}
	if stored.RevokedAt != nil {
		// Токен уже отозван - повторный выход идемпотентен
		return nil
	}

	if err := s.refreshTokenRepo.Revoke(ctx, jwt.HashToken(req.RefreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.logger.Info("User logged out", map[string]interface{}{
		"user_id": stored.UserID,
	})

	return nil
}

// GetUserByID возвращает пользователя по ID
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Не возвращаем password_hash
	user.PasswordHash = ""

	return user, nil
}

// ValidateToken валидирует JWT токен и возвращает claims
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString)
}

func (s *Service) storeRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.refreshTokenRepo.Create(ctx, &domain.RefreshToken{
		UserID:    userID,
		TokenHash: jwt.HashToken(token),
		ExpiresAt: time.Now().Add(s.refreshExpiry),
	})
}
