package http

import (
	"encoding/json"
	"net/http"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/usecase/profile"
)

// ProfileHandler обрабатывает запросы профиля пользователя
type ProfileHandler struct {
	profileService *profile.Service
	logger         logger.Logger
}

// NewProfileHandler создает новый handler
func NewProfileHandler(profileService *profile.Service, logger logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile возвращает профиль текущего пользователя
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.profileService.Get(r.Context(), claims.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to get profile", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

// CompleteOnboarding заполняет профиль и завершает онбординг
// POST /api/v1/profile/onboarding
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req profile.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.profileService.CompleteOnboarding(r.Context(), claims.UserID, &req)
	if err != nil {
		if err == domain.ErrInvalidUserData {
			respondError(w, http.StatusBadRequest, "Invalid onboarding data")
			return
		}
		if err == domain.ErrUserNotFound {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to complete onboarding", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to complete onboarding")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}
