// Package session holds the auth token and current user. A non-empty token
// is the only logged-in signal.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pharaohs/pitchside/internal/domain"
)

// ErrNoExpiry means the token carries no exp claim
var ErrNoExpiry = errors.New("token has no expiry")

// Persister is the part of domain.Store a session needs
type Persister interface {
	GetSession() (*domain.SessionRecord, bool)
	SaveSession(rec domain.SessionRecord) error
	ClearSession()
}

// Manager is the process-wide session state
type Manager struct {
	mu    sync.RWMutex
	token string
	user  *domain.User

	store  Persister
	logger *slog.Logger

	subMu  sync.Mutex
	subs   map[int]func(*domain.User)
	nextID int
}

// NewManager creates a session manager and restores any persisted session.
// store may be nil for an ephemeral session.
func NewManager(store Persister, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:  store,
		logger: logger,
		subs:   make(map[int]func(*domain.User)),
	}
	if store != nil {
		if rec, ok := store.GetSession(); ok {
			m.token = rec.Token
			m.user = rec.User
		}
	}
	return m
}

// Token returns the bearer token, or "" when logged out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsLoggedIn reports whether a token is held
func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

// CurrentUser returns a copy of the current user, or nil
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Role returns the current user's role, or "" when logged out
func (m *Manager) Role() domain.Role {
	if u := m.CurrentUser(); u != nil {
		return u.Role
	}
	return ""
}

// Save stores a fresh login and persists it
func (m *Manager) Save(token string, user domain.User) error {
	m.mu.Lock()
	m.token = token
	m.user = &user
	m.mu.Unlock()

	var err error
	if m.store != nil {
		err = m.store.SaveSession(domain.SessionRecord{Token: token, User: &user})
		if err != nil {
			m.logger.Error("failed to persist session", "error", err)
		}
	}
	m.emit(&user)
	return err
}

// UpdateUser replaces the stored user, keeping the token
func (m *Manager) UpdateUser(user domain.User) error {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return domain.ErrNotLoggedIn
	}
	m.user = &user
	token := m.token
	m.mu.Unlock()

	var err error
	if m.store != nil {
		err = m.store.SaveSession(domain.SessionRecord{Token: token, User: &user})
	}
	m.emit(&user)
	return err
}

// Clear drops the token and user. Safe to call when already logged out.
func (m *Manager) Clear() {
	m.mu.Lock()
	wasLoggedIn := m.token != ""
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if m.store != nil {
		m.store.ClearSession()
	}
	if wasLoggedIn {
		m.logger.Info("session cleared")
		m.emit(nil)
	}
}

// ExpiresAt reads the exp claim of the current token without verifying
// its signature. The backend stays the authority on validity.
func (m *Manager) ExpiresAt() (time.Time, error) {
	token := m.Token()
	if token == "" {
		return time.Time{}, domain.ErrNotLoggedIn
	}
	return TokenExpiry(token)
}

// TokenExpiry returns the exp claim of an unverified JWT
func TokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// Subscribe registers fn for login, user change, and logout (nil user)
func (m *Manager) Subscribe(fn func(*domain.User)) func() {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) emit(user *domain.User) {
	m.subMu.Lock()
	fns := make([]func(*domain.User), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		var u *domain.User
		if user != nil {
			cp := *user
			u = &cp
		}
		fn(u)
	}
}
