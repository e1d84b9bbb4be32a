package voiceclone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// httpClient handles HTTP communication with the service.
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

// request makes a JSON request with retry support.
func (h *httpClient) request(ctx context.Context, method, path string, body any, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	return h.withRetry(ctx, func() error {
		var bodyReader io.Reader
		if bodyData != nil {
			bodyReader = bytes.NewReader(bodyData)
		}
		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if bodyData != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return h.do(req, result)
	})
}

// requestRaw makes a JSON request and returns the raw response bytes,
// used for endpoints that answer with audio instead of JSON.
func (h *httpClient) requestRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	bodyData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	var out []byte
	err = h.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bytes.NewReader(bodyData))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		h.setHeaders(req)

		resp, err := h.client.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return h.parseError(data, resp.StatusCode)
		}
		out = data
		return nil
	})
	return out, err
}

// uploadFile uploads a file using multipart form data.
func (h *httpClient) uploadFile(ctx context.Context, path string, file io.Reader, filename string, fields map[string]string, result any) error {
	// Buffer the multipart body up front so retries can replay it.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}

	body := buf.Bytes()
	return h.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return h.do(req, result)
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
	}
	return lastErr
}

// do performs a single request and decodes a JSON response.
func (h *httpClient) do(req *http.Request, result any) error {
	h.setHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return h.parseError(body, resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (h *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
}

// parseError parses an error response body.
func (h *httpClient) parseError(body []byte, httpStatus int) error {
	var envelope struct {
		Error *Error `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.HTTPStatus = httpStatus
		return envelope.Error
	}

	return &Error{
		Code:       "Unknown",
		Message:    string(body),
		HTTPStatus: httpStatus,
	}
}
