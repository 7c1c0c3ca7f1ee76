package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

const defaultCallTimeout = 30 * time.Second

// Caller — контракт вызова daemon-сервиса.
//
// Вызов синхронный и блокирующий. Транспортные сбои возвращаются
// через error; логические ошибки сервиса — через Response.OK=false.
type Caller interface {
	Call(ctx context.Context, service, method string, params map[string]any) (*Response, error)
}

// Response — ответ daemon-сервиса.
type Response struct {
	// OK — флаг успеха вызова.
	OK bool `json:"ok"`

	// Result — результат вызова. Может отсутствовать (nil) даже
	// при OK=true.
	Result any `json:"result,omitempty"`

	// Error — описание ошибки при OK=false.
	Error *CallError `json:"error,omitempty"`
}

// CallError — ошибка, о которой сообщил сервис.
type CallError struct {
	Message string `json:"message"`
}

// callRequest — тело запроса к сервису.
type callRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// Client — HTTP-клиент daemon-сервисов.
type Client struct {
	registry   *Registry
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient создаёт клиент поверх реестра сервисов.
//
// Таймаут вызова настраивается переменной CALL_TIMEOUT_SEC
// (default: 30). Это политика клиента, а не движка.
func NewClient(registry *Registry, logger *slog.Logger) *Client {
	timeout := defaultCallTimeout
	if v := os.Getenv("CALL_TIMEOUT_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
	}

	return &Client{
		registry:   registry,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Call вызывает метод сервиса.
func (c *Client) Call(ctx context.Context, service, method string, params map[string]any) (*Response, error) {
	endpoint, ok := c.registry.Endpoint(service)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}

	body, err := json.Marshal(callRequest{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrCallFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/call", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrCallFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling daemon service",
		"service", service,
		"method", method,
		"endpoint", endpoint,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %v", ErrCallFailed, service, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: %s.%s: HTTP %d: %s",
			ErrCallFailed, service, method, resp.StatusCode, truncate(string(raw), 200))
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %s.%s: decode response: %v", ErrCallFailed, service, method, err)
	}

	return &r, nil
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
