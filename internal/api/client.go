package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"console-backend/internal/models"
)

// Client talks to the upstream back-office REST API. It is a thin transport
// wrapper: every call attaches the caller-supplied bearer token and maps
// responses onto the AuthError/HTTPError taxonomy.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g. "https://api.example.com").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type loginResponse struct {
	Token string           `json:"token"`
	User  *models.Identity `json:"user"`
}

// Login validates credentials upstream. A 401/403 comes back as *AuthError,
// any other non-2xx as *HTTPError, and transport failures as-is.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, *models.Identity, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, true)
	if err != nil {
		return "", nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", nil, &AuthError{StatusCode: http.StatusOK, Message: "no token in response"}
	}
	return resp.Token, resp.User, nil
}

// Me fetches the current identity for the given token.
func (c *Client) Me(ctx context.Context, token string) (*models.Identity, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, false)
	if err != nil {
		return nil, err
	}
	var id models.Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}
	return &id, nil
}

// UpdateProfile sends a partial profile update. The server's returned
// representation is authoritative; no client-side merge happens here.
func (c *Client) UpdateProfile(ctx context.Context, token string, fields map[string]interface{}) (*models.Identity, error) {
	body, err := c.do(ctx, http.MethodPatch, "/auth/profile", token, fields, false)
	if err != nil {
		return nil, err
	}
	var id models.Identity
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, fmt.Errorf("failed to decode updated identity: %w", err)
	}
	return &id, nil
}

// Settings fetches the site-wide configuration record.
func (c *Client) Settings(ctx context.Context, token string) (*models.SiteSettings, error) {
	body, err := c.do(ctx, http.MethodGet, "/settings", token, nil, false)
	if err != nil {
		return nil, err
	}
	var s models.SiteSettings
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, nil
}

// UpdateSettings replaces the site configuration upstream and returns the
// server's representation.
func (c *Client) UpdateSettings(ctx context.Context, token string, s models.SiteSettings) (*models.SiteSettings, error) {
	body, err := c.do(ctx, http.MethodPut, "/settings", token, s, false)
	if err != nil {
		return nil, err
	}
	var out models.SiteSettings
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &out, nil
}

// ListResource fetches a raw collection (products, orders, users, ...).
// The elements are opaque to this client; the list-view controller does the
// filtering and pagination.
func (c *Client) ListResource(ctx context.Context, token, resource string) ([]map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, "/"+strings.Trim(resource, "/"), token, nil, false)
	if err != nil {
		return nil, err
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(body, &items); err != nil {
		// Some endpoints wrap the collection in {"data": [...]}.
		var wrapped struct {
			Data []map[string]interface{} `json:"data"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil || wrapped.Data == nil {
			return nil, fmt.Errorf("failed to decode %s collection: %w", resource, err)
		}
		items = wrapped.Data
	}
	return items, nil
}

// do performs a request and returns the response body. Non-2xx statuses map
// to *AuthError (when authErr is set, i.e. during login) or *HTTPError.
func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}, authErr bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		if authErr {
			return nil, &AuthError{StatusCode: resp.StatusCode, Message: msg}
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		return e.Message
	}
	return ""
}
