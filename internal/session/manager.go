// Package session maps signed client tokens to server-held login sessions.
//
// The token handed to the client is an HS256 JWT carrying only the session
// id. The session itself lives in memory, so logging out or sweeping removes
// it even while the token signature is still valid.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "feedback"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNotFound     = errors.New("session not found")
	ErrExpired      = errors.New("session expired")
)

// Session is the identity of a logged-in user.
type Session struct {
	ID        string
	Username  string
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// TTL is how long a new session stays valid.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts a session for the user and returns its signed token.
func (m *Manager) Create(username, name string) (string, Session, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		Username:  username,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign token: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return signed, s, nil
}

// Resolve returns the live session behind token.
func (m *Manager) Resolve(token string) (Session, error) {
	id, err := m.parse(token, false)
	if err != nil {
		return Session{}, err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		m.remove(id)
		return Session{}, ErrExpired
	}
	return s, nil
}

// Destroy ends the session behind token. Expired or unknown tokens are a no-op.
func (m *Manager) Destroy(token string) {
	id, err := m.parse(token, true)
	if err != nil {
		return
	}
	m.remove(id)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Count is the number of sessions currently held, expired ones included until swept.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) parse(token string, allowExpired bool) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	}
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if allowExpired && errors.Is(err, jwt.ErrTokenExpired) && parsed != nil {
			if c, ok := parsed.Claims.(*claims); ok && c.ID != "" {
				return c.ID, nil
			}
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.ID == "" {
		return "", ErrInvalidToken
	}
	return c.ID, nil
}
