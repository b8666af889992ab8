package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
)

const adminOnly = "Only administrators can do this."

// AdminService provides moderation operations
type AdminService struct {
	repo     domain.AdminRepository
	comments domain.FeedRepository
	session  Session
	notices  notice.Publisher
	logger   *slog.Logger
}

// NewAdminService creates an admin service
func NewAdminService(repo domain.AdminRepository, comments domain.FeedRepository, sess Session, notices notice.Publisher, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		repo:     repo,
		comments: comments,
		session:  sess,
		notices:  noticesOrDiscard(notices),
		logger:   logger,
	}
}

func (s *AdminService) check(action string) error {
	if err := guard(s.session, action, adminOnly, domain.RoleAdmin); err != nil {
		return refuse(s.notices, notice.LevelError, err)
	}
	return nil
}

// Media lists every post
func (s *AdminService) Media(ctx context.Context) ([]domain.Video, error) {
	if err := s.check("list media"); err != nil {
		return nil, err
	}
	return s.repo.ListMedia(ctx)
}

// DeleteMedia removes any post
func (s *AdminService) DeleteMedia(ctx context.Context, id domain.ID) error {
	if err := s.check("delete media"); err != nil {
		return err
	}
	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		return err
	}
	s.logger.Info("media deleted", "videoID", id)
	publish(s.notices, notice.LevelSuccess, "Media deleted successfully")
	return nil
}

// DeleteComment removes any comment
func (s *AdminService) DeleteComment(ctx context.Context, id domain.ID) error {
	if err := s.check("delete comment"); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Comment deleted successfully")
	return nil
}

// Users lists every account
func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	if err := s.check("list users"); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, id domain.ID) error {
	if err := s.check("delete user"); err != nil {
		return err
	}
	if id == userID(s.session) {
		return refuse(s.notices, notice.LevelWarning, invalid("user", "cannot be your own account"))
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "userID", id)
	publish(s.notices, notice.LevelSuccess, "User deleted successfully")
	return nil
}

// SetUserStatus activates, deactivates, or suspends an account
func (s *AdminService) SetUserStatus(ctx context.Context, id domain.ID, status domain.UserStatus) error {
	if err := s.check("set user status"); err != nil {
		return err
	}
	switch status {
	case domain.UserActive, domain.UserInactive, domain.UserSuspended:
	default:
		return invalid("status", "must be one of: active inactive suspended")
	}
	if err := s.repo.SetUserStatus(ctx, id, status); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "User status updated to "+string(status))
	return nil
}

// ResetPassword issues a temporary password for an account
func (s *AdminService) ResetPassword(ctx context.Context, id domain.ID) (string, error) {
	if err := s.check("reset password"); err != nil {
		return "", err
	}
	return s.repo.ResetPassword(ctx, id)
}

// Logs returns a page of audit logs
func (s *AdminService) Logs(ctx context.Context, filter domain.LogFilter) (*domain.LogPage, error) {
	if err := s.check("view logs"); err != nil {
		return nil, err
	}
	if err := Validate(filter); err != nil {
		return nil, err
	}
	return s.repo.GetLogs(ctx, filter)
}

// Locations lists tryout locations
func (s *AdminService) Locations(ctx context.Context) ([]string, error) {
	if err := s.check("list locations"); err != nil {
		return nil, err
	}
	return s.repo.GetLocations(ctx)
}

// AddLocation adds a tryout location
func (s *AdminService) AddLocation(ctx context.Context, location string) error {
	if err := s.check("add location"); err != nil {
		return err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return invalid("location", "is required")
	}
	if err := s.repo.AddLocation(ctx, location); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Location added")
	return nil
}

// DeleteLocation removes a tryout location
func (s *AdminService) DeleteLocation(ctx context.Context, location string) error {
	if err := s.check("delete location"); err != nil {
		return err
	}
	if err := s.repo.DeleteLocation(ctx, location); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Location removed")
	return nil
}
