package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/httech/voltgo/internal/pkg/logger"
	"github.com/httech/voltgo/pkg/client"
)

// TokenKey is the fixed store key holding the bearer token
const TokenKey = "token"

var (
	// ErrNoSession is returned by Restore when no token has been stored
	ErrNoSession = errors.New("not logged in")

	// ErrInvalidated is returned by Token after Invalidate
	ErrInvalidated = errors.New("session has been invalidated")
)

// Session holds exactly one bearer credential. It is created on login,
// shared by reference with every authenticated caller and invalidated on logout.
type Session struct {
	mu    sync.RWMutex
	token string
	valid bool
}

// New creates a session for a non-empty token
func New(token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, client.ErrMissingCredential
	}
	return &Session{token: token, valid: true}, nil
}

// Token implements client.TokenSource
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return "", ErrInvalidated
	}
	return s.token, nil
}

// Authenticated reports whether the session still holds its credential
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}

// Invalidate drops the credential. Subsequent Token calls fail.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.valid = false
}

// KV is the persistent key-value store the token lives in
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
}

// Manager ties login, persistence and logout together
type Manager struct {
	store KV
	auth  Authenticator
	log   *logger.Logger
}

// NewManager creates a session manager
func NewManager(store KV, auth Authenticator, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: store, auth: auth, log: log}
}

// Login authenticates, persists the token under TokenKey and returns the new session
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	s, err := New(resp.Token)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(ctx, TokenKey, resp.Token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	m.log.With("username", username).Info("Session created")
	return s, nil
}

// Restore rebuilds the session from the stored token
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	token, err := m.store.Get(ctx, TokenKey)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	s, err := New(token)
	if err != nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// Logout invalidates s (if any) and removes the stored token
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if s != nil {
		s.Invalidate()
	}
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	m.log.Info("Session cleared")
	return nil
}
