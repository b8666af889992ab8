// Package service holds the feature services the TUI and CLI call. Services
// own client-side state (optimistic stores, unread count, media failure
// flags) and apply role guards before any request is dispatched.
package service

import (
	"errors"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
)

// Session is the read side of the session a service needs
type Session interface {
	CurrentUser() *domain.User
	IsLoggedIn() bool
}

// guard returns nil when the current user holds one of roles
func guard(s Session, action, reason string, roles ...domain.Role) error {
	if s == nil || !s.IsLoggedIn() {
		return domain.ErrNotLoggedIn
	}
	user := s.CurrentUser()
	for _, role := range roles {
		if user.Is(role) {
			return nil
		}
	}
	return &domain.RoleError{Action: action, Reason: reason}
}

// refuse publishes the notice for a locally rejected action and returns err
func refuse(n notice.Publisher, level notice.Level, err error) error {
	msg := err.Error()
	if errors.Is(err, domain.ErrNotLoggedIn) {
		msg = "Please log in to continue."
	}
	n.Publish(notice.Notice{Level: level, Message: msg})
	return err
}

func noticesOrDiscard(n notice.Publisher) notice.Publisher {
	if n == nil {
		return notice.Discard{}
	}
	return n
}

func userID(s Session) domain.ID {
	if s == nil {
		return ""
	}
	if u := s.CurrentUser(); u != nil {
		return u.ID
	}
	return ""
}

func publish(n notice.Publisher, level notice.Level, msg string) {
	n.Publish(notice.Notice{Level: level, Message: msg})
}
