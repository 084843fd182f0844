package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(backendURL string) *Server {
	cfg := &model.AppConfig{
		Backend: model.BackendConfig{BaseURL: backendURL, TimeoutSec: 2},
		Server: model.ServerConfig{
			ListenAddr:   "127.0.0.1:0",
			PublicOrigin: "http://127.0.0.1:1",
			CookieName:   model.DefaultCookieName,
			Environment:  "development",
		},
	}
	return New(cfg, zap.NewNop().Sugar())
}

func post(t *testing.T, r http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == model.DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestAuthProxyRelaysUnauthorized(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer backend.Close()

	w := post(t, newTestServer(backend.URL).Router(), "/api/auth/login", `{"email":"a@b.c","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `{"message":"invalid credentials"}`, w.Body.String())
	assert.Nil(t, sessionCookie(w))
}

func TestAuthProxyForwardsBodyAndSetsCookie(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"email":"a@b.c","password":"hunter22"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-1","email":"a@b.c"}`))
	}))
	defer backend.Close()

	w := post(t, newTestServer(backend.URL).Router(), "/api/auth/login", `{"email":"a@b.c","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok-1","email":"a@b.c"}`, w.Body.String())

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Equal(t, "tok-1", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
}

func TestAuthProxyBackendUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	w := post(t, newTestServer(url).Router(), "/api/auth/login", `{}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"backend unavailable"}`, w.Body.String())
}

func TestAuthProxyRejectsInvalidSuffix(t *testing.T) {
	var calls int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer backend.Close()

	w := post(t, newTestServer(backend.URL).Router(), "/api/auth/Login_Now", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid auth route"}`, w.Body.String())
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestAuthProxyLogoutClearsCookie(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	w := post(t, newTestServer(backend.URL).Router(), "/api/auth/logout", ``,
		&http.Cookie{Name: model.DefaultCookieName, Value: "tok-1"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestProfile(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"email":"ada@example.com"}`))
	}))
	defer backend.Close()
	r := newTestServer(backend.URL).Router()

	get := func(cookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: model.DefaultCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ada@example.com"}`, w.Body.String())

	w = get("bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())

	w = get("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionBootstrap(t *testing.T) {
	// The bootstrap calls the server's own profile route, so the server
	// under test must be reachable over HTTP.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"ada@example.com"}`))
	}))
	defer backend.Close()

	s := newTestServer(backend.URL)
	dashboard := httptest.NewServer(s.Router())
	defer dashboard.Close()
	s.bootstrap.ProfileURL = dashboard.URL + "/api/auth/profile"

	req, err := http.NewRequest(http.MethodGet, dashboard.URL+"/dashboard/session", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: model.DefaultCookieName, Value: "tok"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "authenticated", body["status"])
	assert.Equal(t, true, body["isAuthenticated"])
	assert.Equal(t, "ada@example.com", body["email"])
}

func TestSessionBootstrapWithoutCookie(t *testing.T) {
	r := newTestServer("http://127.0.0.1:1").Router()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"unauthenticated","isAuthenticated":false,"token":"","email":""}`, w.Body.String())
}
