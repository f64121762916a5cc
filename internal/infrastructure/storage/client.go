package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client - интерфейс blob-хранилища документов и фотографий
type Client interface {
	// Upload загружает объект в бакет и возвращает публичный URL
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)

	// Health проверяет доступность хранилища
	Health(ctx context.Context) error
}

// httpClient - HTTP реализация клиента хранилища
// (REST в стиле supabase storage: object/{bucket}/{path})
type httpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient создает новый HTTP клиент хранилища
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
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

// Upload загружает объект; повторная загрузка того же пути перезаписывает объект
func (c *httpClient) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage returned status %d: %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(bucket, path), nil
}

// PublicURL возвращает публичный URL загруженного объекта
func (c *httpClient) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}

// Health проверяет доступность хранилища
func (c *httpClient) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/storage/v1/health", c.baseURL)
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
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
