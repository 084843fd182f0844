package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/auth"
	"github.com/nhle/study-dashboard/internal/model"
	"github.com/nhle/study-dashboard/internal/server"
	"github.com/nhle/study-dashboard/tests/testutil"
)

func TestAuthStoreSignsInThroughProxy(t *testing.T) {
	backend := testutil.NewTestBackend(t)
	router := server.NewTestServer(backend.URL).Router()
	front := httptest.NewServer(router)
	defer front.Close()

	// The backend URL is unreachable, so only the proxy route can succeed.
	cfg := &model.AppConfig{
		Backend: model.BackendConfig{BaseURL: "http://127.0.0.1:1", AuthViaProxy: true},
		Server:  model.ServerConfig{PublicOrigin: front.URL},
	}
	st := auth.NewStore(api.NewAuthGateway(cfg))
	ctx := context.Background()
	creds := model.Credentials{Email: "ada@example.com", Password: "correct-horse"}

	require.NoError(t, st.Register(ctx, creds))
	require.NoError(t, st.Logout(ctx))
	assert.False(t, st.Session().IsAuthenticated)

	require.NoError(t, st.Login(ctx, creds))
	session := st.Session()
	assert.True(t, session.IsAuthenticated)
	assert.Equal(t, "ada@example.com", session.Email)
	assert.NotEmpty(t, st.Token())

	w := server.Post(t, router, "/api/auth/login", `{"email":"ada@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := server.SessionCookie(w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthGatewayDefaultsToBackend(t *testing.T) {
	backend := testutil.NewTestBackend(t)
	cfg := &model.AppConfig{
		Backend: model.BackendConfig{BaseURL: backend.URL},
		Server:  model.ServerConfig{PublicOrigin: "http://127.0.0.1:1"},
	}
	st := auth.NewStore(api.NewAuthGateway(cfg))

	require.NoError(t, st.Register(context.Background(), model.Credentials{Email: "bob@example.com", Password: "correct-horse"}))
	assert.True(t, st.Session().IsAuthenticated)
}
