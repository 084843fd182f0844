// Package credential persists the CLI's auth session between runs.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/study-dashboard/internal/model"
)

const (
	serviceName = "studydash"
	sessionKey  = "session"
)

// ErrNoSession is returned by Load when no session has been saved.
var ErrNoSession = errors.New("no saved session")

// Store loads and saves the current auth session.
type Store interface {
	Load() (model.Session, error)
	Save(s model.Session) error
	Clear() error
}

// KeyringStore keeps the session as JSON in a keyring item.
type KeyringStore struct {
	ring keyring.Keyring
}

// Open returns a store backed by the system keyring, falling back to an
// encrypted file under ~/.config/studydash/credentials.
func Open() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/studydash/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("studydash-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// NewMemory returns a store that lives only as long as the process.
func NewMemory() *KeyringStore {
	return &KeyringStore{ring: keyring.NewArrayKeyring(nil)}
}

// Load returns the saved session, or ErrNoSession.
func (k *KeyringStore) Load() (model.Session, error) {
	item, err := k.ring.Get(sessionKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return model.Session{}, ErrNoSession
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("getting credential %q: %w", sessionKey, err)
	}

	var s model.Session
	if err := json.Unmarshal(item.Data, &s); err != nil {
		return model.Session{}, fmt.Errorf("decoding credential %q: %w", sessionKey, err)
	}
	if s.Token == "" {
		return model.Session{}, ErrNoSession
	}
	s.IsAuthenticated = true
	return s, nil
}

// Save stores s, replacing any previous session.
func (k *KeyringStore) Save(s model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding credential %q: %w", sessionKey, err)
	}
	err = k.ring.Set(keyring.Item{
		Key:   sessionKey,
		Data:  data,
		Label: "studydash session",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", sessionKey, err)
	}
	return nil
}

// Clear removes the saved session. Clearing an empty store is not an error.
func (k *KeyringStore) Clear() error {
	err := k.ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", sessionKey, err)
	}
	return nil
}
