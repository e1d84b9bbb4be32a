package speakerid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpClient handles HTTP communication with the verification service.
type httpClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
}

func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    cfg.baseURL,
		apiKey:     cfg.apiKey,
		maxRetries: cfg.maxRetries,
	}
}

// requestJSON makes a JSON request with retry on transient errors.
func (h *httpClient) requestJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}
	return h.withRetry(ctx, func() error {
		var r io.Reader
		if bodyData != nil {
			r = bytes.NewReader(bodyData)
		}
		return h.do(ctx, method, path, r, "application/json", result)
	})
}

// requestAudio posts a raw WAV payload with retry on transient errors.
// The audio is buffered so retries can replay it.
func (h *httpClient) requestAudio(ctx context.Context, path string, audio io.Reader, result any) error {
	data, err := io.ReadAll(audio)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	return h.withRetry(ctx, func() error {
		return h.do(ctx, http.MethodPost, path, bytes.NewReader(data), "audio/wav", result)
	})
}

// withRetry runs fn with exponential backoff: 1s, 2s, 4s, ...
func (h *httpClient) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
		// Network errors fall through and retry.
	}
	return lastErr
}

func (h *httpClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", h.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(data, resp.StatusCode)
	}
	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func parseError(body []byte, httpStatus int) error {
	var wrapped struct {
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
		wrapped.Error.HTTPStatus = httpStatus
		return wrapped.Error
	}
	return &Error{
		Code:       http.StatusText(httpStatus),
		Message:    string(body),
		HTTPStatus: httpStatus,
	}
}
