package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/ai"
	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/devbackend"
	"github.com/nhle/study-dashboard/internal/model"
)

// TestBackend is a reference backend on an in-memory database, served over
// a real HTTP listener.
type TestBackend struct {
	*httptest.Server
	Store *devbackend.SQLiteStore
}

var userSeq atomic.Int64

// NewTestBackend starts a TestBackend that is shut down when the test
// completes.
func NewTestBackend(t *testing.T) *TestBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := devbackend.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	srv := devbackend.NewServer(
		st,
		devbackend.NewTokenIssuer("test-secret", time.Hour),
		devbackend.NewMemoryDenylist(),
		ai.Local{},
		zap.NewNop().Sugar(),
	)
	ts := httptest.NewServer(srv.Router())

	t.Cleanup(func() {
		ts.Close()
		if err := st.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return &TestBackend{Server: ts, Store: st}
}

// Register creates a fresh account and returns its token.
func (b *TestBackend) Register(t *testing.T) string {
	t.Helper()
	creds := model.Credentials{
		Email:    fmt.Sprintf("user%d@example.com", userSeq.Add(1)),
		Password: "correct-horse",
	}
	resp, err := api.NewDirectAuth(b.URL).Register(context.Background(), creds)
	if err != nil {
		t.Fatalf("registering test user: %v", err)
	}
	return resp.Token
}

// Client returns an API client signed in as a fresh account.
func (b *TestBackend) Client(t *testing.T) *api.Client {
	t.Helper()
	return api.New(b.URL, api.StaticToken(b.Register(t)))
}
