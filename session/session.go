// Package session keeps the front-end's persisted client state: one bearer token per browser.
//
// The browser only holds an opaque session id in a cookie; the token itself lives in a Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by a Store when no token is stored for an id.
var ErrNotFound = errors.New("session not found")

// Session is the explicit session object handed to the backend client.
type Session struct {
	ID    string
	Token string
}

// Authenticated reports whether a token is present. The token is not re-validated.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// BearerToken returns the token to attach to backend requests.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Store persists tokens by session id.
type Store interface {
	Get(ctx context.Context, id string) (string, error)
	Set(ctx context.Context, id, token string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager creates, restores and invalidates sessions on top of a Store.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager returns a Manager whose entries expire after ttl.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{store: store, ttl: ttl}
}

// TTL returns the lifetime of stored entries, also used for the cookie.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Restore returns the session for id. An unknown or empty id yields a fresh anonymous session.
func (m *Manager) Restore(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return &Session{ID: uuid.NewString()}, nil
	}
	token, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &Session{ID: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Session{ID: id, Token: token}, nil
}

// Login stores the token for the session. The id is rotated so a pre-login id is never reused.
func (m *Manager) Login(ctx context.Context, s *Session, token string) error {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("rotate session: %w", err)
		}
	}
	id := uuid.NewString()
	if err := m.store.Set(ctx, id, token, m.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.ID = id
	s.Token = token
	return nil
}

// Invalidate forgets the session's token, e.g. on logout or after the backend answered 401.
func (m *Manager) Invalidate(ctx context.Context, s *Session) error {
	s.Token = ""
	if s.ID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}
