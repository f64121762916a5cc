package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status представляет исход платежа, объявленный провайдером
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
)

// ChargeRequest содержит запрос на списание средств
type ChargeRequest struct {
	Amount      int    `json:"amount"` // минорные единицы
	Currency    string `json:"currency"`
	PrincipalID string `json:"principal_id"`
	Reference   string `json:"reference"` // идемпотентный ключ на стороне провайдера
	Description string `json:"description,omitempty"`
}

// ChargeResult содержит результат платежа.
// Отказ провайдера (declined) - штатный исход, а не транспортная ошибка.
type ChargeResult struct {
	Status      Status `json:"status"`
	ProviderRef string `json:"provider_ref,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Succeeded проверяет, прошел ли платеж
func (r *ChargeResult) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Provider - интерфейс платежного провайдера
type Provider interface {
	// Charge проводит списание; транспортные сбои возвращаются как error,
	// отказ провайдера - как ChargeResult со статусом declined
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)

	// Health проверяет доступность провайдера
	Health(ctx context.Context) error
}

// httpProvider - HTTP реализация платежного провайдера
type httpProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider создает новый HTTP клиент платежного провайдера
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) Provider {
	return &httpProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Charge отправляет запрос на списание с retry логикой для транспортных сбоев
func (c *httpProvider) Charge(ctx context.Context, chargeReq *ChargeRequest) (*ChargeResult, error) {
	jsonData, err := json.Marshal(chargeReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/charges", c.baseURL)

	var result *ChargeResult
	var lastErr error

	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Экспоненциальная задержка между попытками
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		result, lastErr = c.doRequest(req)
		if lastErr == nil {
			return result, nil
		}
	}

	return nil, fmt.Errorf("charge failed after %d attempts: %w", maxRetries, lastErr)
}

// doRequest выполняет HTTP запрос и обрабатывает ответ
func (c *httpProvider) doRequest(req *http.Request) (*ChargeResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// 402 - штатный отказ провайдера, тело содержит причину
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ChargeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// Health проверяет доступность платежного провайдера
func (c *httpProvider) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
