// Package auth holds the client's session state and the server-side
// bootstrap that seeds it from the session cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/credential"
	"github.com/nhle/study-dashboard/internal/model"
)

// Gateway performs the remote half of the auth operations.
// *api.AuthProxy implements it.
type Gateway interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

// State is a point-in-time copy of the store.
type State struct {
	Session model.Session
	Error   string
}

// Store holds the current session. Its Token method makes it the
// api.TokenSource for every backend client.
type Store struct {
	mu      sync.RWMutex
	session model.Session
	err     error
	subs    map[int]func(State)
	nextSub int

	// notifyMu is taken before mu by every mutation.
	notifyMu sync.Mutex

	gateway Gateway
	creds   credential.Store
	log     *zap.SugaredLogger
}

// Option configures a Store.
type Option func(*Store)

// WithCredentials persists the session in cs across process restarts.
func WithCredentials(cs credential.Store) Option {
	return func(s *Store) { s.creds = cs }
}

// WithLogger sets the store's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates a signed-out store.
func NewStore(gateway Gateway, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		subs:    make(map[int]func(State)),
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the current session.
func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the current session token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Err returns the error of the last failed operation.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Subscribe registers fn to receive the state after every change. fn may
// read the store but must not change it synchronously.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Set overwrites the session as given, e.g. with the seed from the server
// bootstrap. With a credential store attached, an authenticated session is
// saved and any other session clears the saved one.
func (s *Store) Set(session model.Session) {
	s.update(func() {
		s.session = session
		s.err = nil
	})
	if s.creds == nil {
		return
	}
	if session.IsAuthenticated {
		if err := s.creds.Save(session); err != nil {
			s.log.Warnw("saving session", "error", err)
		}
		return
	}
	if err := s.creds.Clear(); err != nil {
		s.log.Warnw("clearing saved session", "error", err)
	}
}

// Restore loads a saved session from the credential store. A missing
// session leaves the store signed out and is not an error.
func (s *Store) Restore() error {
	if s.creds == nil {
		return nil
	}
	session, err := s.creds.Load()
	if errors.Is(err, credential.ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	s.update(func() { s.session = session })
	return nil
}

// Login exchanges credentials for a session. On failure the error is
// recorded and the current session is left as it was.
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	return s.authenticate(ctx, "login", s.gateway.Login, creds)
}

// Register creates an account and signs into it.
func (s *Store) Register(ctx context.Context, creds model.Credentials) error {
	return s.authenticate(ctx, "register", s.gateway.Register, creds)
}

func (s *Store) authenticate(
	ctx context.Context,
	op string,
	call func(context.Context, model.Credentials) (*model.AuthResponse, error),
	creds model.Credentials,
) error {
	s.update(func() { s.err = nil })
	resp, err := call(ctx, creds)
	if err != nil {
		if !model.IsValidationError(err) {
			err = fmt.Errorf("%s: %w", op, err)
		}
		s.update(func() { s.err = err })
		return err
	}
	s.Set(model.Session{IsAuthenticated: true, Token: resp.Token, Email: resp.Email})
	return nil
}

// Logout signs out. The backend is told to invalidate the token, but the
// local session is cleared whatever the outcome. The returned error only
// reports that the remote call failed.
func (s *Store) Logout(ctx context.Context) error {
	token := s.Token()
	var remoteErr error
	if token != "" {
		if err := s.gateway.Logout(ctx, token); err != nil {
			remoteErr = fmt.Errorf("backend logout: %w", err)
			s.log.Infow("backend logout failed, signing out locally", "error", err)
		}
	}

	s.update(func() {
		s.session = model.Session{}
		s.err = nil
	})
	if s.creds != nil {
		if err := s.creds.Clear(); err != nil {
			s.log.Warnw("clearing saved session", "error", err)
		}
	}
	return remoteErr
}

func (s *Store) update(mutate func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	mutate()
	state := State{Session: s.session}
	if s.err != nil {
		state.Error = s.err.Error()
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
