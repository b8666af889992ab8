package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/optimistic"
)

// ScoutCache is the offline copy of a scout's lists
type ScoutCache interface {
	GetShortlist() ([]domain.PlayerProfile, bool)
	SaveShortlist(players []domain.PlayerProfile) error
	GetInvitations(key string) ([]domain.Invitation, bool)
	SaveInvitations(key string, invitations []domain.Invitation) error
}

const sentInvitationsKey = "sent"

// ScoutingService drives search, shortlist, tryouts, and sent invitations
type ScoutingService struct {
	repo    domain.ScoutRepository
	session Session
	cache   ScoutCache
	notices notice.Publisher
	logger  *slog.Logger

	shortlist *optimistic.Store[domain.ID, domain.PlayerProfile]
	sent      *optimistic.Store[string, domain.Invitation]
}

// NewScoutingService creates a scouting service. cache may be nil.
func NewScoutingService(repo domain.ScoutRepository, sess Session, cache ScoutCache, notices notice.Publisher, logger *slog.Logger) *ScoutingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoutingService{
		repo:      repo,
		session:   sess,
		cache:     cache,
		notices:   noticesOrDiscard(notices),
		logger:    logger,
		shortlist: optimistic.NewStore[domain.ID, domain.PlayerProfile](logger),
		sent:      optimistic.NewStore[string, domain.Invitation](logger),
	}
}

// Shortlist exposes the shortlist store for subscription
func (s *ScoutingService) Shortlist() *optimistic.Store[domain.ID, domain.PlayerProfile] {
	return s.shortlist
}

// SentStore exposes the sent-invitation store, keyed by slot
func (s *ScoutingService) SentStore() *optimistic.Store[string, domain.Invitation] {
	return s.sent
}

// === Search ===

// Search validates filters and runs a player search
func (s *ScoutingService) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error) {
	if err := Validate(filters); err != nil {
		return nil, err
	}
	res, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	for i := range res.Players {
		res.Players[i].IsShortlisted = s.IsShortlisted(res.Players[i].ID)
	}
	return res, nil
}

// FilterOptions returns the values a search can filter by
func (s *ScoutingService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	return s.repo.GetFilterOptions(ctx)
}

// Locations returns the tryout locations
func (s *ScoutingService) Locations(ctx context.Context) ([]string, error) {
	return s.repo.GetLocations(ctx)
}

// === Shortlist ===

// LoadShortlist replaces the local shortlist with the server copy, falling
// back to the cache when offline.
func (s *ScoutingService) LoadShortlist(ctx context.Context) ([]domain.PlayerProfile, error) {
	players, err := s.repo.GetShortlist(ctx)
	if err != nil {
		if s.cache == nil || !errors.Is(err, domain.ErrServerOffline) {
			return nil, err
		}
		cached, ok := s.cache.GetShortlist()
		if !ok {
			return nil, err
		}
		s.logger.Info("serving cached shortlist", "count", len(cached))
		players = cached
	} else if s.cache != nil {
		if cerr := s.cache.SaveShortlist(players); cerr != nil {
			s.logger.Warn("failed to cache shortlist", "error", cerr)
		}
	}

	entries := make(map[domain.ID]domain.PlayerProfile, len(players))
	for _, p := range players {
		entries[p.ID] = p
	}
	s.shortlist.Replace(entries)
	return s.ShortlistedPlayers(), nil
}

// ShortlistedPlayers returns the local shortlist ordered by name
func (s *ScoutingService) ShortlistedPlayers() []domain.PlayerProfile {
	entries := s.shortlist.Entries()
	players := make([]domain.PlayerProfile, 0, len(entries))
	for _, p := range entries {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Name != players[j].Name {
			return players[i].Name < players[j].Name
		}
		return players[i].ID < players[j].ID
	})
	return players
}

// IsShortlisted reports local shortlist membership
func (s *ScoutingService) IsShortlisted(playerID domain.ID) bool {
	return s.shortlist.Get(playerID).Present
}

// AddToShortlist shortlists a player optimistically
func (s *ScoutingService) AddToShortlist(ctx context.Context, player domain.PlayerProfile) error {
	if err := guard(s.session, "shortlist", "Only scouts can add players to shortlist.", domain.RoleScout); err != nil {
		return refuse(s.notices, notice.LevelWarning, err)
	}
	if s.IsShortlisted(player.ID) && !s.shortlist.Pending(player.ID) {
		publish(s.notices, notice.LevelInfo, "Player is already in your shortlist.")
		return nil
	}

	_, err := optimistic.Run(ctx, s.shortlist, optimistic.Mutation[domain.ID, domain.PlayerProfile]{
		Key: player.ID,
		Apply: func(optimistic.Entry[domain.PlayerProfile]) optimistic.Entry[domain.PlayerProfile] {
			p := player
			p.IsShortlisted = true
			return optimistic.Some(p)
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.PlayerProfile], bool, error) {
			return optimistic.Entry[domain.PlayerProfile]{}, false, s.repo.AddToShortlist(ctx, player.ID)
		},
		Refresh: s.refreshShortlisted(player.ID),
	})
	return s.finish(err, "Player added to shortlist", "shortlist add", player.ID)
}

// RemoveFromShortlist drops a player from the shortlist optimistically
func (s *ScoutingService) RemoveFromShortlist(ctx context.Context, playerID domain.ID) error {
	if err := guard(s.session, "shortlist", "Only scouts can remove players from shortlist.", domain.RoleScout); err != nil {
		return refuse(s.notices, notice.LevelWarning, err)
	}

	_, err := optimistic.Run(ctx, s.shortlist, optimistic.Mutation[domain.ID, domain.PlayerProfile]{
		Key: playerID,
		Apply: func(optimistic.Entry[domain.PlayerProfile]) optimistic.Entry[domain.PlayerProfile] {
			return optimistic.None[domain.PlayerProfile]()
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.PlayerProfile], bool, error) {
			if err := s.repo.RemoveFromShortlist(ctx, playerID); err != nil {
				return optimistic.Entry[domain.PlayerProfile]{}, false, err
			}
			return optimistic.None[domain.PlayerProfile](), true, nil
		},
	})
	return s.finish(err, "Player removed from shortlist", "shortlist remove", playerID)
}

// ToggleShortlist adds or removes a player depending on local membership
func (s *ScoutingService) ToggleShortlist(ctx context.Context, player domain.PlayerProfile) error {
	if s.IsShortlisted(player.ID) {
		return s.RemoveFromShortlist(ctx, player.ID)
	}
	return s.AddToShortlist(ctx, player)
}

func (s *ScoutingService) refreshShortlisted(playerID domain.ID) func(context.Context) (optimistic.Entry[domain.PlayerProfile], error) {
	return func(ctx context.Context) (optimistic.Entry[domain.PlayerProfile], error) {
		players, err := s.repo.GetShortlist(ctx)
		if err != nil {
			return optimistic.Entry[domain.PlayerProfile]{}, err
		}
		for _, p := range players {
			if p.ID == playerID {
				p.IsShortlisted = true
				return optimistic.Some(p), nil
			}
		}
		return optimistic.None[domain.PlayerProfile](), nil
	}
}

// === Invitations ===

// LoadSentInvitations replaces the local sent invitations with the server copy
func (s *ScoutingService) LoadSentInvitations(ctx context.Context) ([]domain.Invitation, error) {
	invitations, err := s.repo.GetSentInvitations(ctx)
	if err != nil {
		if s.cache == nil || !errors.Is(err, domain.ErrServerOffline) {
			return nil, err
		}
		cached, ok := s.cache.GetInvitations(sentInvitationsKey)
		if !ok {
			return nil, err
		}
		invitations = cached
	} else if s.cache != nil {
		if cerr := s.cache.SaveInvitations(sentInvitationsKey, invitations); cerr != nil {
			s.logger.Warn("failed to cache sent invitations", "error", cerr)
		}
	}

	entries := make(map[string]domain.Invitation, len(invitations))
	for _, inv := range invitations {
		slot := domain.InvitationSlot{TryoutID: inv.TryoutID, PlayerID: inv.PlayerID}
		entries[slot.Key()] = inv
	}
	s.sent.Replace(entries)
	return s.SentInvitations(), nil
}

// SentInvitations returns local sent invitations, newest first
func (s *ScoutingService) SentInvitations() []domain.Invitation {
	entries := s.sent.Entries()
	out := make([]domain.Invitation, 0, len(entries))
	for _, inv := range entries {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Invitation returns the local invitation for a slot
func (s *ScoutingService) Invitation(slot domain.InvitationSlot) (domain.Invitation, bool) {
	return s.sent.Value(slot.Key())
}

// SendInvitation invites a player to a tryout optimistically; the server's
// invitation replaces the placeholder.
func (s *ScoutingService) SendInvitation(ctx context.Context, slot domain.InvitationSlot) (domain.Invitation, error) {
	if err := guard(s.session, "invite", "Only scouts can invite players to tryouts", domain.RoleScout); err != nil {
		return domain.Invitation{}, refuse(s.notices, notice.LevelError, err)
	}
	if slot.TryoutID == "" {
		publish(s.notices, notice.LevelWarning, "Please select a tryout first")
		return domain.Invitation{}, invalid("tryout", "is required")
	}
	if inv, ok := s.Invitation(slot); ok && !s.sent.Pending(slot.Key()) {
		publish(s.notices, notice.LevelInfo, "Player already invited to this tryout.")
		return inv, nil
	}

	entry, err := optimistic.Run(ctx, s.sent, optimistic.Mutation[string, domain.Invitation]{
		Key: slot.Key(),
		Apply: func(optimistic.Entry[domain.Invitation]) optimistic.Entry[domain.Invitation] {
			return optimistic.Some(domain.Invitation{
				TryoutID: slot.TryoutID,
				PlayerID: slot.PlayerID,
				Status:   domain.InvitationPending,
			})
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.Invitation], bool, error) {
			inv, err := s.repo.Invite(ctx, slot)
			if err != nil {
				return optimistic.Entry[domain.Invitation]{}, false, err
			}
			return optimistic.Some(*inv), true, nil
		},
	})
	return entry.Value, s.finish(err, "Player invited successfully", "invite", slot.PlayerID)
}

// CancelInvitation withdraws a sent invitation optimistically
func (s *ScoutingService) CancelInvitation(ctx context.Context, slot domain.InvitationSlot) error {
	if err := guard(s.session, "cancel invitation", "Only scouts can cancel invitations", domain.RoleScout); err != nil {
		return refuse(s.notices, notice.LevelError, err)
	}
	inv, ok := s.Invitation(slot)
	if !ok || inv.ID == "" {
		return refuse(s.notices, notice.LevelWarning, invalid("invitation", "has not been confirmed yet"))
	}

	_, err := optimistic.Run(ctx, s.sent, optimistic.Mutation[string, domain.Invitation]{
		Key: slot.Key(),
		Apply: func(optimistic.Entry[domain.Invitation]) optimistic.Entry[domain.Invitation] {
			return optimistic.None[domain.Invitation]()
		},
		Commit: func(ctx context.Context) (optimistic.Entry[domain.Invitation], bool, error) {
			if err := s.repo.CancelInvitation(ctx, inv.ID); err != nil {
				return optimistic.Entry[domain.Invitation]{}, false, err
			}
			return optimistic.None[domain.Invitation](), true, nil
		},
	})
	return s.finish(err, "Invitation cancelled", "cancel invitation", inv.ID)
}

// finish publishes the outcome of an optimistic mutation. Request failures
// were already announced by the gateway.
func (s *ScoutingService) finish(err error, success, action string, id domain.ID) error {
	switch {
	case err == nil:
		publish(s.notices, notice.LevelSuccess, success)
	case errors.Is(err, domain.ErrMutationInFlight):
		publish(s.notices, notice.LevelInfo, "Action already in progress")
	default:
		s.logger.Warn("scouting action failed", "action", action, "id", id, "error", err)
	}
	return err
}

// === Tryouts ===

// Tryouts returns the scout's tryouts
func (s *ScoutingService) Tryouts(ctx context.Context) ([]domain.Tryout, error) {
	return s.repo.GetTryouts(ctx)
}

// CreateTryout validates and schedules a tryout
func (s *ScoutingService) CreateTryout(ctx context.Context, t domain.Tryout) (*domain.Tryout, error) {
	if err := guard(s.session, "create tryout", "Only scouts can create tryouts", domain.RoleScout); err != nil {
		return nil, refuse(s.notices, notice.LevelWarning, err)
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateTryout(ctx, t)
	if err != nil {
		return nil, err
	}
	publish(s.notices, notice.LevelSuccess, "Tryout created successfully")
	return created, nil
}

// UpdateTryout validates and saves a tryout
func (s *ScoutingService) UpdateTryout(ctx context.Context, t domain.Tryout) (*domain.Tryout, error) {
	if err := guard(s.session, "update tryout", "Only scouts can update tryouts", domain.RoleScout); err != nil {
		return nil, refuse(s.notices, notice.LevelWarning, err)
	}
	if t.ID == "" {
		return nil, invalid("id", "is required")
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateTryout(ctx, t)
	if err != nil {
		return nil, err
	}
	publish(s.notices, notice.LevelSuccess, "Tryout updated successfully")
	return updated, nil
}

// DeleteTryout cancels a tryout
func (s *ScoutingService) DeleteTryout(ctx context.Context, tryoutID domain.ID) error {
	if err := guard(s.session, "delete tryout", "Only scouts can delete tryouts", domain.RoleScout); err != nil {
		return refuse(s.notices, notice.LevelWarning, err)
	}
	if err := s.repo.DeleteTryout(ctx, tryoutID); err != nil {
		return err
	}
	publish(s.notices, notice.LevelSuccess, "Tryout deleted successfully")
	return nil
}

// === Profiles ===

// Profile returns the current scout's profile
func (s *ScoutingService) Profile(ctx context.Context) (*domain.ScoutProfile, error) {
	return s.repo.GetProfile(ctx)
}

// UpdateProfile saves profile fields or a prepared avatar
func (s *ScoutingService) UpdateProfile(ctx context.Context, update domain.ScoutProfileUpdate, avatar *domain.MediaAsset) (*domain.ScoutProfile, error) {
	if err := Validate(update); err != nil {
		return nil, err
	}
	profile, err := s.repo.UpdateProfile(ctx, update, avatar)
	if err != nil {
		return nil, err
	}
	publish(s.notices, notice.LevelSuccess, "Profile updated successfully")
	return profile, nil
}

// DeleteProfilePicture removes the scout's picture
func (s *ScoutingService) DeleteProfilePicture(ctx context.Context) error {
	return s.repo.DeleteProfilePicture(ctx)
}

// PublicProfile returns another scout's public profile and tryouts
func (s *ScoutingService) PublicProfile(ctx context.Context, scoutID domain.ID) (*domain.ScoutProfile, []domain.Tryout, error) {
	profile, err := s.repo.GetPublicProfile(ctx, scoutID)
	if err != nil {
		return nil, nil, err
	}
	tryouts, err := s.repo.GetPublicTryouts(ctx, scoutID)
	if err != nil {
		return profile, nil, err
	}
	return profile, tryouts, nil
}
