package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/session"
)

// Invalidator drops cached backend data
type Invalidator interface {
	InvalidateAll()
}

// AuthService logs users in and out
type AuthService struct {
	repo    domain.AuthRepository
	session *session.Manager
	cache   Invalidator
	notices notice.Publisher
	logger  *slog.Logger
}

// NewAuthService creates an auth service. cache may be nil.
func NewAuthService(repo domain.AuthRepository, sess *session.Manager, cache Invalidator, notices notice.Publisher, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		repo:    repo,
		session: sess,
		cache:   cache,
		notices: noticesOrDiscard(notices),
		logger:  logger,
	}
}

// Login authenticates and stores the session
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}

	res, err := s.repo.Login(ctx, req)
	if err != nil {
		s.logger.Warn("login failed", "email", req.Email, "error", err)
		return nil, err
	}
	return s.start(res)
}

// Register creates an account and stores the session
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := Validate(req); err != nil {
		return nil, err
	}

	res, err := s.repo.Register(ctx, req)
	if err != nil {
		s.logger.Warn("registration failed", "email", req.Email, "error", err)
		return nil, err
	}
	return s.start(res)
}

func (s *AuthService) start(res *domain.AuthResult) (*domain.User, error) {
	if res.Token == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := s.session.Save(res.Token, res.User); err != nil {
		// Still logged in for this run; only persistence failed
		s.logger.Error("failed to save session", "error", err)
	}
	s.logger.Info("logged in", "userID", res.User.ID, "role", res.User.Role)
	user := res.User
	return &user, nil
}

// Logout clears the session and every cached list
func (s *AuthService) Logout() {
	if s.logout() {
		publish(s.notices, notice.LevelInfo, "You have been logged out.")
	}
}

func (s *AuthService) logout() bool {
	wasLoggedIn := s.session.IsLoggedIn()
	s.session.Clear()
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
	return wasLoggedIn
}

// SessionExpired is the gateway hook for a 401 response. The gateway has
// already told the user; this only drops local state.
func (s *AuthService) SessionExpired() {
	if !s.session.IsLoggedIn() {
		return
	}
	s.logger.Info("session expired, logging out")
	s.logout()
}

// CurrentUser returns the logged-in user, or nil
func (s *AuthService) CurrentUser() *domain.User {
	return s.session.CurrentUser()
}

// IsLoggedIn reports whether a token is held
func (s *AuthService) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}
