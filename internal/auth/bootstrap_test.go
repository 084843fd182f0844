package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/study-dashboard/internal/model"
)

func TestResolveWithoutCookie(t *testing.T) {
	b := NewBootstrapper("http://127.0.0.1:1", "", nil)
	res := b.Resolve(context.Background(), "  ")
	assert.Equal(t, Unauthenticated, res.Status)
	assert.Equal(t, model.Session{}, res.Session())
}

func TestResolveAuthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/profile", r.URL.Path)
		c, err := r.Cookie("auth-token")
		if assert.NoError(t, err) {
			assert.Equal(t, "tok", c.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"ada@example.com"}`))
	}))
	defer srv.Close()

	res := NewBootstrapper(srv.URL, "auth-token", nil).Resolve(context.Background(), "tok")
	assert.Equal(t, Authenticated, res.Status)
	assert.Equal(t, model.Session{IsAuthenticated: true, Token: "tok", Email: "ada@example.com"}, res.Session())
}

func TestResolveProfileFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"email":`))
		}},
		{"empty email", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"email":""}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := NewBootstrapper(srv.URL, "", nil).Resolve(context.Background(), "tok")
			assert.Equal(t, AuthenticatedUnknownEmail, res.Status)
			assert.Equal(t, model.Session{IsAuthenticated: true, Token: "tok"}, res.Session())
		})
	}
}

func TestResolveUnreachableProfile(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewBootstrapper(url, "", nil).Resolve(context.Background(), "tok")
	assert.Equal(t, AuthenticatedUnknownEmail, res.Status)
	assert.Empty(t, res.Session().Email)
	assert.True(t, res.Session().IsAuthenticated)
}
