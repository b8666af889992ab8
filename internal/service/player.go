package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/optimistic"
	"github.com/pharaohs/pitchside/internal/rating"
)

// InvitationCache is the offline copy of invitation lists
type InvitationCache interface {
	GetInvitations(key string) ([]domain.Invitation, bool)
	SaveInvitations(key string, invitations []domain.Invitation) error
}

// UserUpdater keeps the stored session user in step with profile edits
type UserUpdater interface {
	UpdateUser(user domain.User) error
}

const receivedInvitationsKey = "received"

// PlayerService drives the player's own profile, stats, and received invitations
type PlayerService struct {
	repo    domain.PlayerRepository
	session Session
	users   UserUpdater
	cache   InvitationCache
	notices notice.Publisher
	logger  *slog.Logger

	received *optimistic.Store[domain.ID, domain.Invitation]
}

// NewPlayerService creates a player service. users and cache may be nil.
func NewPlayerService(repo domain.PlayerRepository, sess Session, users UserUpdater, cache InvitationCache, notices notice.Publisher, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{
		repo:     repo,
		session:  sess,
		users:    users,
		cache:    cache,
		notices:  noticesOrDiscard(notices),
		logger:   logger,
		received: optimistic.NewStore[domain.ID, domain.Invitation](logger),
	}
}

// Received exposes the received-invitation store for subscription
func (s *PlayerService) Received() *optimistic.Store[domain.ID, domain.Invitation] {
	return s.received
}

// === Profile ===

// Profile returns the current player's profile
func (s *PlayerService) Profile(ctx context.Context) (*domain.PlayerProfile, error) {
	return s.repo.GetProfile(ctx)
}

// PublicProfile returns another player's public profile
func (s *PlayerService) PublicProfile(ctx context.Context, playerID domain.ID) (*domain.PlayerProfile, error) {
	return s.repo.GetPublicProfile(ctx, playerID)
}

// UpdateProfile validates and saves profile fields with an optional prepared avatar
func (s *PlayerService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate, avatar *domain.MediaAsset) (*domain.PlayerProfile, error) {
	if err := guard(s.session, "update profile", "Only players can edit a player profile.", domain.RolePlayer); err != nil {
		return nil, refuse(s.notices, notice.LevelWarning, err)
	}
	if err := Validate(update); err != nil {
		return nil, err
	}

	profile, err := s.repo.UpdateProfile(ctx, update, avatar)
	if err != nil {
		return nil, err
	}

	if s.users != nil && update.Name != "" {
		if u := s.session.CurrentUser(); u != nil && u.Name != update.Name {
			u.Name = update.Name
			if err := s.users.UpdateUser(*u); err != nil {
				s.logger.Warn("failed to update session user", "error", err)
			}
		}
	}
	publish(s.notices, notice.LevelSuccess, "Profile updated successfully")
	return profile, nil
}

// DeleteProfilePicture removes the player's picture
func (s *PlayerService) DeleteProfilePicture(ctx context.Context) error {
	if err := s.repo.DeleteProfilePicture(ctx); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Profile picture removed")
	return nil
}

// Videos returns the player's own posts
func (s *PlayerService) Videos(ctx context.Context) ([]domain.Video, error) {
	return s.repo.GetVideos(ctx)
}

// === Stats ===

// Stats returns the player's activity summary
func (s *PlayerService) Stats(ctx context.Context) (*domain.PlayerSummary, error) {
	return s.repo.GetStats(ctx)
}

// Rating computes the current player's rating from their profile stats
func (s *PlayerService) Rating(ctx context.Context) (float64, error) {
	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		return rating.Min, err
	}
	return rating.Calculate(profile.PerformanceStats()), nil
}

// UpdatePerformanceStats validates and saves match statistics
func (s *PlayerService) UpdatePerformanceStats(ctx context.Context, stats domain.PerformanceStats) (*domain.PerformanceStats, error) {
	if err := guard(s.session, "update stats", "Only players can update performance stats.", domain.RolePlayer); err != nil {
		return nil, refuse(s.notices, notice.LevelWarning, err)
	}
	if err := Validate(stats); err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdatePerformanceStats(ctx, stats)
	if err != nil {
		return nil, err
	}
	publish(s.notices, notice.LevelSuccess, "Performance stats updated")
	return saved, nil
}

// Dashboard returns the landing summary for the current role
func (s *PlayerService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return s.repo.GetDashboard(ctx)
}

// FilterOptions returns the feed filter values
func (s *PlayerService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	return s.repo.GetFilterOptions(ctx)
}

// === Invitations ===

// LoadInvitations replaces the local received invitations with the server copy
func (s *PlayerService) LoadInvitations(ctx context.Context) ([]domain.Invitation, error) {
	invitations, err := s.repo.GetInvitations(ctx)
	if err != nil {
		if s.cache == nil || !errors.Is(err, domain.ErrServerOffline) {
			return nil, err
		}
		cached, ok := s.cache.GetInvitations(receivedInvitationsKey)
		if !ok {
			return nil, err
		}
		invitations = cached
	} else if s.cache != nil {
		if cerr := s.cache.SaveInvitations(receivedInvitationsKey, invitations); cerr != nil {
			s.logger.Warn("failed to cache invitations", "error", cerr)
		}
	}

	entries := make(map[domain.ID]domain.Invitation, len(invitations))
	for _, inv := range invitations {
		entries[inv.ID] = inv
	}
	s.received.Replace(entries)
	return s.Invitations(), nil
}

// Invitations returns local received invitations: pending first, then newest
func (s *PlayerService) Invitations() []domain.Invitation {
	entries := s.received.Entries()
	out := make([]domain.Invitation, 0, len(entries))
	for _, inv := range entries {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Status == domain.InvitationPending, out[j].Status == domain.InvitationPending
		if pi != pj {
			return pi
		}
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// RespondToInvitation accepts or declines an invitation. The key is marked
// pending while the request runs; the status shown afterwards is the one
// the server reports.
func (s *PlayerService) RespondToInvitation(ctx context.Context, invitationID domain.ID, status domain.InvitationStatus) (domain.Invitation, error) {
	if err := guard(s.session, "respond", "Only players can respond to invitations.", domain.RolePlayer); err != nil {
		return domain.Invitation{}, refuse(s.notices, notice.LevelWarning, err)
	}
	if status != domain.InvitationAccepted && status != domain.InvitationDeclined {
		return domain.Invitation{}, invalid("status", "must be one of: accepted declined")
	}

	entry, err := optimistic.Run(ctx, s.received, optimistic.Mutation[domain.ID, domain.Invitation]{
		Key: invitationID,
		Apply: func(cur optimistic.Entry[domain.Invitation]) optimistic.Entry[domain.Invitation] {
			return cur
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.Invitation], bool, error) {
			return optimistic.Entry[domain.Invitation]{}, false, s.repo.RespondToInvitation(ctx, invitationID, status)
		},
		Refresh: func(ctx context.Context) (optimistic.Entry[domain.Invitation], error) {
			invitations, err := s.repo.GetInvitations(ctx)
			if err != nil {
				return optimistic.Entry[domain.Invitation]{}, err
			}
			for _, inv := range invitations {
				if inv.ID == invitationID {
					return optimistic.Some(inv), nil
				}
			}
			return optimistic.None[domain.Invitation](), nil
		},
	})

	switch {
	case err == nil:
		msg := "Invitation accepted"
		if status == domain.InvitationDeclined {
			msg = "Invitation declined"
		}
		publish(s.notices, notice.LevelSuccess, msg)
	case errors.Is(err, domain.ErrMutationInFlight):
		publish(s.notices, notice.LevelInfo, "Response already in progress")
	default:
		s.logger.Warn("invitation response failed", "invitationID", invitationID, "error", err)
	}
	return entry.Value, err
}
