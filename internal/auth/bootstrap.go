package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/model"
)

// BootstrapStatus is the outcome of resolving a session cookie.
type BootstrapStatus string

const (
	Unauthenticated           BootstrapStatus = "unauthenticated"
	AuthenticatedUnknownEmail BootstrapStatus = "authenticated_unknown_email"
	Authenticated             BootstrapStatus = "authenticated"
)

// BootstrapResult is what the server knows about the caller before any
// client code runs.
type BootstrapResult struct {
	Status BootstrapStatus `json:"status"`
	Token  string          `json:"-"`
	Email  string          `json:"email,omitempty"`
}

// Session converts the result into the seed session for the Auth Store.
func (r BootstrapResult) Session() model.Session {
	if r.Status == Unauthenticated || r.Token == "" {
		return model.Session{}
	}
	return model.Session{IsAuthenticated: true, Token: r.Token, Email: r.Email}
}

// Bootstrapper resolves the session cookie of an incoming page request by
// asking the dashboard server's own profile endpoint who the token
// belongs to. It never fails: an unreachable or unhappy profile endpoint
// downgrades the result to AuthenticatedUnknownEmail.
type Bootstrapper struct {
	ProfileURL string
	HTTPClient *http.Client
	CookieName string
	Logger     *zap.SugaredLogger
}

// NewBootstrapper creates a Bootstrapper that calls
// <origin>/api/auth/profile.
func NewBootstrapper(origin, cookieName string, log *zap.SugaredLogger) *Bootstrapper {
	if cookieName == "" {
		cookieName = model.DefaultCookieName
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bootstrapper{
		ProfileURL: strings.TrimRight(origin, "/") + "/api/auth/profile",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		CookieName: cookieName,
		Logger:     log,
	}
}

// Resolve classifies the cookie value.
func (b *Bootstrapper) Resolve(ctx context.Context, cookie string) BootstrapResult {
	token := strings.TrimSpace(cookie)
	if token == "" {
		return BootstrapResult{Status: Unauthenticated}
	}

	email, err := b.fetchEmail(ctx, token)
	if err != nil {
		b.logger().Debugw("profile lookup failed during bootstrap", "error", err)
		return BootstrapResult{Status: AuthenticatedUnknownEmail, Token: token}
	}
	return BootstrapResult{Status: Authenticated, Token: token, Email: email}
}

func (b *Bootstrapper) fetchEmail(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.ProfileURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating profile request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: b.CookieName, Value: token})
	req.Header.Set("Accept", "application/json")

	hc := b.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling profile endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading profile response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("profile endpoint returned %d", resp.StatusCode)
	}

	var profile model.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("decoding profile response: %w", err)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return "", fmt.Errorf("profile response has no email")
	}
	return profile.Email, nil
}

func (b *Bootstrapper) logger() *zap.SugaredLogger {
	if b.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return b.Logger
}
