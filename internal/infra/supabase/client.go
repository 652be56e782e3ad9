package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Supabase project's HTTP surfaces: GoTrue for auth and
// the storage API for the image bucket. Relational data goes through the
// SQL connection instead, not through this client.
type Client struct {
	projectURL string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// Config holds what the client needs to reach a Supabase project.
type Config struct {
	ProjectURL string
	AnonKey    string
	ServiceKey string
	Timeout    time.Duration
}

// Error is a structured error response from a Supabase API.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code,omitempty"`
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("supabase: %s (%s, status %d)", e.Message, e.ErrorCode, e.StatusCode)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase anon key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		projectURL: strings.TrimRight(cfg.ProjectURL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// doJSON sends a JSON request and decodes a JSON response into out (which
// may be nil for fire-and-forget calls). token overrides the anon key as
// bearer; contentType defaults to application/json.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, token string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, reader, "application/json", token, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.projectURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	bearer := token
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func parseError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		// GoTrue sometimes uses different field names.
		var alt struct {
			Msg              string `json:"msg"`
			ErrorDescription string `json:"error_description"`
			ErrorField       string `json:"error"`
		}
		_ = json.Unmarshal(body, &alt)
		switch {
		case alt.Msg != "":
			apiErr.Message = alt.Msg
		case alt.ErrorDescription != "":
			apiErr.Message = alt.ErrorDescription
		case alt.ErrorField != "":
			apiErr.Message = alt.ErrorField
		default:
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	return apiErr
}
