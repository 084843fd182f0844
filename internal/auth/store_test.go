package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/api"
	"github.com/nhle/study-dashboard/internal/credential"
	"github.com/nhle/study-dashboard/internal/model"
)

type fakeGateway struct {
	loginErr  error
	logoutErr error
	// blockLogout makes Logout wait for ctx to end.
	blockLogout bool
	loggedOut   []string
}

func (g *fakeGateway) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return &model.AuthResponse{Token: "tok-" + creds.Email, Email: creds.Email}, nil
}

func (g *fakeGateway) Register(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	return g.Login(ctx, creds)
}

func (g *fakeGateway) Logout(ctx context.Context, token string) error {
	g.loggedOut = append(g.loggedOut, token)
	if g.blockLogout {
		<-ctx.Done()
		return ctx.Err()
	}
	return g.logoutErr
}

func TestLoginSetsSession(t *testing.T) {
	s := NewStore(&fakeGateway{})
	var states []State
	s.Subscribe(func(st State) { states = append(states, st) })

	require.NoError(t, s.Login(context.Background(), model.Credentials{Email: "ada@example.com", Password: "hunter22"}))

	assert.Equal(t, model.Session{IsAuthenticated: true, Token: "tok-ada@example.com", Email: "ada@example.com"}, s.Session())
	assert.Equal(t, "tok-ada@example.com", s.Token())
	require.NotEmpty(t, states)
	assert.True(t, states[len(states)-1].Session.IsAuthenticated)
}

func TestLoginFailureKeepsSession(t *testing.T) {
	gw := &fakeGateway{}
	s := NewStore(gw)
	s.Set(model.Session{IsAuthenticated: true, Token: "old", Email: "old@example.com"})

	gw.loginErr = &api.APIError{StatusCode: 401, Message: "invalid credentials"}
	err := s.Login(context.Background(), model.Credentials{Email: "x@example.com", Password: "wrong"})
	require.Error(t, err)

	assert.Equal(t, "old", s.Token())
	apiErr := api.AsAPIError(s.Err())
	require.NotNil(t, apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestLoginValidation(t *testing.T) {
	s := NewStore(&fakeGateway{})
	err := s.Login(context.Background(), model.Credentials{Email: "a@b.c"})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.False(t, s.Session().IsAuthenticated)
}

func TestLogoutClearsLocallyWhenBackendFails(t *testing.T) {
	gw := &fakeGateway{logoutErr: &api.UnavailableError{Op: "POST /auth/logout", Err: errors.New("connection refused")}}
	s := NewStore(gw)
	s.Set(model.Session{IsAuthenticated: true, Token: "tok", Email: "a@b.c"})

	err := s.Logout(context.Background())
	assert.Error(t, err)
	assert.True(t, api.IsUnavailable(err))

	assert.False(t, s.Session().IsAuthenticated)
	assert.Empty(t, s.Token())
	assert.Equal(t, []string{"tok"}, gw.loggedOut)
}

func TestLogoutClearsLocallyOnTimeout(t *testing.T) {
	s := NewStore(&fakeGateway{blockLogout: true})
	s.Set(model.Session{IsAuthenticated: true, Token: "tok"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Logout(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.Session().IsAuthenticated)
}

func TestLogoutWhenSignedOutSkipsBackend(t *testing.T) {
	gw := &fakeGateway{}
	s := NewStore(gw)
	assert.NoError(t, s.Logout(context.Background()))
	assert.Empty(t, gw.loggedOut)
}

func TestCredentialPersistence(t *testing.T) {
	creds := credential.NewMemory()
	s := NewStore(&fakeGateway{}, WithCredentials(creds))
	require.NoError(t, s.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "password1"}))

	restored := NewStore(&fakeGateway{}, WithCredentials(creds))
	require.NoError(t, restored.Restore())
	assert.Equal(t, "tok-a@b.c", restored.Token())

	require.NoError(t, restored.Logout(context.Background()))
	_, err := creds.Load()
	assert.ErrorIs(t, err, credential.ErrNoSession)
}

func TestSetOverwritesAndClearsSavedSession(t *testing.T) {
	creds := credential.NewMemory()
	s := NewStore(&fakeGateway{}, WithCredentials(creds))
	s.Set(model.Session{IsAuthenticated: true, Token: "tok", Email: "a@b.c"})

	_, err := creds.Load()
	require.NoError(t, err)

	seed := model.Session{IsAuthenticated: false, Email: "a@b.c"}
	s.Set(seed)
	assert.Equal(t, seed, s.Session())

	_, err = creds.Load()
	assert.ErrorIs(t, err, credential.ErrNoSession)

	restored := NewStore(&fakeGateway{}, WithCredentials(creds))
	require.NoError(t, restored.Restore())
	assert.False(t, restored.Session().IsAuthenticated)
}

func TestSubscriberMayReadStoreDuringConcurrentChanges(t *testing.T) {
	s := NewStore(&fakeGateway{})
	s.Subscribe(func(State) {
		time.Sleep(time.Millisecond)
		_ = s.Token()
		_ = s.Session()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				s.Set(model.Session{IsAuthenticated: true, Token: fmt.Sprintf("tok-%d", i)})
			}(i)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent Set calls with a reading subscriber did not finish")
	}
	assert.True(t, s.Session().IsAuthenticated)
}
