package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/YaduEnc/Deehadi/internal/delivery/http/middleware"
	"github.com/YaduEnc/Deehadi/internal/domain"
	"github.com/YaduEnc/Deehadi/internal/pkg/logger"
	"github.com/YaduEnc/Deehadi/internal/usecase/kyc"
)

// SubmitKYCRequest - тело запроса подачи документов (изображения в base64)
type SubmitKYCRequest struct {
	DocumentType     string `json:"document_type,omitempty"`
	FrontImageBase64 string `json:"front_image_base64" validate:"required"`
	BackImageBase64  string `json:"back_image_base64" validate:"required"`
	ContentType      string `json:"content_type,omitempty"`
}

// KYCHandler обрабатывает запросы верификации личности
type KYCHandler struct {
	kycService *kyc.Service
	logger     logger.Logger
}

// NewKYCHandler создает новый handler
func NewKYCHandler(kycService *kyc.Service, logger logger.Logger) *KYCHandler {
	return &KYCHandler{
		kycService: kycService,
		logger:     logger,
	}
}

// GetStatus возвращает состояние верификации текущего пользователя
// GET /api/v1/kyc/status
func (h *KYCHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := h.kycService.Status(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get KYC status", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get KYC status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    status,
	})
}

// Submit принимает обе стороны документа и создает заявку
// POST /api/v1/kyc/submit
func (h *KYCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	front, err := base64.StdEncoding.DecodeString(req.FrontImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid front image encoding")
		return
	}
	back, err := base64.StdEncoding.DecodeString(req.BackImageBase64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid back image encoding")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	record, err := h.kycService.Submit(r.Context(), claims.UserID, &kyc.SubmitRequest{
		DocumentType:     domain.DocumentType(req.DocumentType),
		FrontImage:       front,
		BackImage:        back,
		ImageContentType: contentType,
	})
	if err != nil {
		if err == domain.ErrInvalidKYCData {
			respondError(w, http.StatusBadRequest, "Both document sides are required")
			return
		}
		h.logger.Error("Failed to submit KYC", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to submit KYC documents")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    record,
	})
}
