package hms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxResponseSize is the maximum allowed response body size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Config holds hospital backend client configuration.
type Config struct {
	BaseURL string
	// Timeout of zero disables the client-side deadline.
	Timeout time.Duration
}

// Client is a thin JSON client for the hospital-management backend. Every
// authenticated call takes the caller's bearer token explicitly.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient creates a new backend client.
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		debug:      os.Getenv("ENV") == "development",
	}
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs the request and unwraps the envelope. An envelope with
// success=false becomes an *APIError.
func call[T any](ctx context.Context, c *Client, method, path, token string, body any) (*Envelope[T], error) {
	var env Envelope[T]
	status, err := c.doRequest(ctx, method, path, token, body, &env)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{StatusCode: status, Message: env.Msg}
	}
	return &env, nil
}

// doRequest sends a JSON request and decodes the JSON response into result.
// It returns the HTTP status code alongside any error.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body any, result any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", c.baseURL+path)
		if payload != nil {
			ev = ev.RawJSON("request", sanitizeForLog(payload))
		}
		ev.Msg("[HMS] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", path).
			Int("status_code", resp.StatusCode).
			RawJSON("response", sanitizeForLog(respBody)).
			Msg("[HMS] Incoming response")
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: messageOf(respBody)}
	}

	// The backend reports business failures inside the envelope, often with
	// a 4xx status, so decode regardless of status.
	if err := json.Unmarshal(respBody, result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// messageOf extracts msg from an envelope body, if any.
func messageOf(body []byte) string {
	var env struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Msg
}

// sanitizeForLog removes or masks sensitive fields from JSON for logging
func sanitizeForLog(data []byte) []byte {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return []byte(`{"_error": "failed to parse for sanitization"}`)
	}

	sanitizeMap(obj, []string{"password", "token", "secret"})

	sanitized, err := json.Marshal(obj)
	if err != nil {
		return []byte(`{"_error": "failed to marshal sanitized data"}`)
	}
	return sanitized
}

// sanitizeMap recursively masks sensitive fields in a map
func sanitizeMap(obj map[string]any, sensitiveFields []string) {
	for key, value := range obj {
		keyLower := strings.ToLower(key)
		for _, sensitive := range sensitiveFields {
			if strings.Contains(keyLower, sensitive) {
				obj[key] = "***MASKED***"
				break
			}
		}
		if nested, ok := value.(map[string]any); ok {
			sanitizeMap(nested, sensitiveFields)
		}
	}
}
