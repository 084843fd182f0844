package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"t1","title":"Read"}]`))
	}))
	defer server.Close()

	c := New(server.URL, StaticToken("secret"))
	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestDoOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, StaticToken(""))
	require.NoError(t, c.DeleteTask(context.Background(), "t1"))
	assert.Empty(t, gotAuth)
}

func TestDoReturnsAPIError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusNotFound, `{"error":"task t9 not found"}`, "task t9 not found"},
		{"message field", http.StatusUnauthorized, `{"message":"invalid credentials"}`, "invalid credentials"},
		{"empty body", http.StatusInternalServerError, ``, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			err := New(server.URL, nil).Get(context.Background(), "/tasks", nil)
			apiErr := AsAPIError(err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.False(t, IsUnavailable(err))
		})
	}
}

func TestDoReturnsUnavailableWhenBackendIsDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := New(baseURL, nil).ListObjectives(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.Nil(t, AsAPIError(err))
}

func TestDoReturnsUnavailableOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL, nil, WithTimeout(20*time.Millisecond))
	_, err := c.ListNotes(context.Background())
	assert.True(t, IsUnavailable(err))
}

func TestUpdateTaskSendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tasks/t1", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"t1","title":"Read","status":"COMPLETED"}`))
	}))
	defer server.Close()

	status := model.TaskCompleted
	task, err := New(server.URL, nil).UpdateTask(context.Background(), model.TaskUpdate{ID: "t1", Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, task.Status)
	assert.Equal(t, map[string]any{"status": "COMPLETED"}, body)
}

func TestAuthProxyLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var creds model.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	}))
	defer server.Close()

	proxy := NewAuthProxy(server.URL)

	resp, err := proxy.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@b.c", resp.Email)

	_, err = proxy.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "nope"})
	assert.True(t, IsUnauthorized(err))

	_, err = proxy.Login(context.Background(), model.Credentials{Email: "a@b.c"})
	assert.True(t, model.IsValidationError(err))
}
