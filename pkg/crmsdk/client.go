package crmsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the CRM service. It covers the unauthenticated surface and
// creates authenticated Sessions through Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates and returns a Session carrying the issued tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var grant TokenGrant
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": username, "password": password}, &grant)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, Grant: grant}, nil
}

// Revoke withdraws an access token. The returned flag reports whether the
// token was honoured at the time of the call.
func (c *Client) Revoke(ctx context.Context, accessToken string) (bool, error) {
	path := "/api/auth/revoke?accessToken=" + url.QueryEscape(accessToken)

	var resp struct {
		Revoked bool `json:"revoked"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, "", nil, &resp); err != nil {
		return false, err
	}
	return resp.Revoked, nil
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/livez", "", nil, nil)
}

// Readyz checks the readiness endpoint.
func (c *Client) Readyz(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, nil)
}

// doJSON sends an optionally authenticated JSON request and decodes the
// response into out (when out is non-nil). Non-2xx responses come back as
// *APIError.
func (c *Client) doJSON(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	return decodeJSON(resp.Body, out)
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
