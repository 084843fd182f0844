package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/study-dashboard/internal/model"
)

// Profile resolves the signed-in user's profile from the backend.
func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.Get(ctx, "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

// AuthProxy talks to the dashboard server's auth proxy route
// (POST <origin>/api/auth/<suffix>) rather than to the backend directly.
type AuthProxy struct {
	client *Client
}

// NewAuthProxy creates an AuthProxy for the dashboard server at origin.
func NewAuthProxy(origin string, opts ...Option) *AuthProxy {
	return &AuthProxy{
		client: New(strings.TrimRight(origin, "/")+"/api", nil, opts...),
	}
}

// NewDirectAuth creates an AuthProxy that calls the backend's /auth routes
// itself. The CLI uses it when no dashboard server is running.
func NewDirectAuth(baseURL string, opts ...Option) *AuthProxy {
	return &AuthProxy{client: New(baseURL, nil, opts...)}
}

// NewAuthGateway picks the auth route for cfg: the dashboard server's proxy
// when Backend.AuthViaProxy is set, the backend itself otherwise.
func NewAuthGateway(cfg *model.AppConfig, opts ...Option) *AuthProxy {
	if cfg.Backend.AuthViaProxy {
		return NewAuthProxy(cfg.Server.PublicOrigin, opts...)
	}
	return NewDirectAuth(cfg.Backend.BaseURL, opts...)
}

// Login exchanges credentials for a session token.
func (p *AuthProxy) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	return p.authenticate(ctx, "login", creds)
}

// Register creates an account and returns a session token for it.
func (p *AuthProxy) Register(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	return p.authenticate(ctx, "register", creds)
}

// Logout invalidates token upstream.
func (p *AuthProxy) Logout(ctx context.Context, token string) error {
	return p.client.WithToken(token).Post(ctx, "/auth/logout", nil, nil)
}

func (p *AuthProxy) authenticate(
	ctx context.Context,
	suffix string,
	creds model.Credentials,
) (*model.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var out model.AuthResponse
	if err := p.client.Post(ctx, "/auth/"+suffix, creds, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return nil, fmt.Errorf("%s response did not include a token", suffix)
	}
	if out.Email == "" {
		out.Email = creds.Email
	}
	return &out, nil
}
