// Package identity talks to the hosted identity provider's admin API.
// Identities live at the provider; this service only ever references them by
// the id the provider returns.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/z12guilherme/gestao-atipicos/pkg/config"
)

// Identity is an external authentication principal.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProviderError is a rejection returned by the provider itself, as opposed to
// a transport failure. Its message is surfaced in per-row import diagnostics.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}

// Client is an HTTP client for the provider admin endpoints, authenticated
// with the privileged service key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

// CreateUser registers a new identity with a confirmed email address.
func (c *Client) CreateUser(ctx context.Context, email, password string) (*Identity, error) {
	payload, err := json.Marshal(createUserRequest{Email: email, Password: password, EmailConfirm: true})
	if err != nil {
		return nil, fmt.Errorf("encode create identity payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build create identity request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, providerError(resp)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode create identity response: %w", err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("identity provider returned no id")
	}
	return &identity, nil
}

// DeleteUser removes an identity. Used both for account deletion and as the
// compensating action when profile persistence fails after the identity was
// already created.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/users/"+id, nil)
	if err != nil {
		return fmt.Errorf("build delete identity request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	defer resp.Body.Close()

	// A missing identity makes the delete a no-op so compensation stays
	// idempotent.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providerError(resp)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

func providerError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Msg != "":
			message = payload.Msg
		case payload.Message != "":
			message = payload.Message
		case payload.ErrorDescription != "":
			message = payload.ErrorDescription
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &ProviderError{Status: resp.StatusCode, Message: message}
}
