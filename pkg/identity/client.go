package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the identity provider's user object. The API only relies on the
// id + email pair; everything else the provider returns is ignored.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Tokens is a signed token pair issued by the provider
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Client wraps the external identity provider's HTTP API.
// Credential storage, password policy and session issuance all live with
// the provider; this client only performs sign-in, sign-out and
// current-user lookups on the caller's behalf.
type Client struct {
	http *resty.Client
}

// NewClient creates an identity provider client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: client}
}

type signInResponse struct {
	Tokens
	User User `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error_description"`
}

func (e *errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// SignIn exchanges email/password credentials for a token pair
func (c *Client) SignIn(ctx context.Context, email, password string) (*Tokens, *User, error) {
	var result signInResponse
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/token")
	if err != nil {
		return nil, nil, fmt.Errorf("identity sign-in: %w", err)
	}
	if resp.StatusCode() == 400 || resp.StatusCode() == 401 {
		return nil, nil, ErrInvalidCredentials
	}
	if resp.IsError() {
		return nil, nil, fmt.Errorf("identity sign-in [%d]: %s", resp.StatusCode(), apiErr.text())
	}

	return &result.Tokens, &result.User, nil
}

// SignOut revokes the session behind the given access token
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetError(&apiErr).
		Post("/logout")
	if err != nil {
		return fmt.Errorf("identity sign-out: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("identity sign-out [%d]: %s", resp.StatusCode(), apiErr.text())
	}
	return nil
}

// GetUser fetches the user behind an access token
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	var apiErr errorResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&apiErr).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("identity get user: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("identity get user [%d]: %s", resp.StatusCode(), apiErr.text())
	}
	return &user, nil
}
