package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
)

// Scout implements domain.ScoutRepository
type Scout struct {
	c *Client
}

// Search finds players matching filters
func (s *Scout) Search(ctx context.Context, filters domain.SearchFilters) (*domain.SearchResult, error) {
	var res domain.SearchResult
	if err := s.c.gw.Get(ctx, "/scout/search", searchQuery(filters), &res); err != nil {
		return nil, err
	}
	s.c.resolvePlayers(res.Players)
	return &res, nil
}

func searchQuery(f domain.SearchFilters) url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Position != "" {
		q.Set("position", f.Position)
	}
	if f.Club != "" {
		q.Set("club", f.Club)
	}
	if f.MinAge > 0 {
		q.Set("minAge", strconv.Itoa(f.MinAge))
	}
	if f.MaxAge > 0 {
		q.Set("maxAge", strconv.Itoa(f.MaxAge))
	}
	if f.HasVideos {
		q.Set("hasVideos", "true")
	}
	if f.MinRating > 0 {
		q.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", f.SortOrder)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// GetFilterOptions returns the values a search can filter by
func (s *Scout) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	var opts domain.FilterOptions
	if err := s.c.gw.Get(ctx, "/scout/filter-options", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// GetLocations returns the tryout locations admins have configured
func (s *Scout) GetLocations(ctx context.Context) ([]string, error) {
	var locations []string
	if err := s.c.gw.Get(ctx, "/scout/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// GetProfile returns the current scout's profile
func (s *Scout) GetProfile(ctx context.Context) (*domain.ScoutProfile, error) {
	var profile domain.ScoutProfile
	if err := s.c.gw.Get(ctx, "/scout/profile", nil, &profile); err != nil {
		return nil, err
	}
	s.c.resolveScout(&profile)
	return &profile, nil
}

// UpdateProfile saves profile fields, or replaces the picture when avatar is set
func (s *Scout) UpdateProfile(ctx context.Context, update domain.ScoutProfileUpdate, avatar *domain.MediaAsset) (*domain.ScoutProfile, error) {
	var res scoutUpdateResponse

	if avatar == nil {
		if err := s.c.gw.Put(ctx, "/scout/profile", update, &res); err != nil {
			return nil, err
		}
	} else {
		form := &gateway.Multipart{
			Fields: []gateway.Field{{Name: "updateType", Value: "profileImageOnly"}},
			Files: []gateway.FilePart{{
				Field:       "profileImage",
				FileName:    avatar.Name,
				Path:        avatar.Path,
				ContentType: avatar.MimeType,
			}},
		}
		req := gateway.Request{Method: http.MethodPut, Path: "/scout/profile", Multipart: form}
		if err := s.c.gw.Do(ctx, req, &res); err != nil {
			return nil, err
		}
	}

	if res.Scout == nil {
		return s.GetProfile(ctx)
	}
	s.c.resolveScout(res.Scout)
	return res.Scout, nil
}

// DeleteProfilePicture removes the current picture
func (s *Scout) DeleteProfilePicture(ctx context.Context) error {
	return s.c.gw.Delete(ctx, "/scout/profile/picture", nil)
}

// GetPublicProfile returns another scout's public profile
func (s *Scout) GetPublicProfile(ctx context.Context, scoutID domain.ID) (*domain.ScoutProfile, error) {
	var profile domain.ScoutProfile
	if err := s.c.gw.Get(ctx, "/scout/public-profile/"+segment(scoutID), nil, &profile); err != nil {
		return nil, err
	}
	s.c.resolveScout(&profile)
	return &profile, nil
}

// GetPublicTryouts returns another scout's tryouts
func (s *Scout) GetPublicTryouts(ctx context.Context, scoutID domain.ID) ([]domain.Tryout, error) {
	var tryouts []domain.Tryout
	if err := s.c.gw.Get(ctx, "/scout/public-tryouts/"+segment(scoutID), nil, &tryouts); err != nil {
		return nil, err
	}
	return tryouts, nil
}

// GetShortlist returns the scout's shortlisted players
func (s *Scout) GetShortlist(ctx context.Context) ([]domain.PlayerProfile, error) {
	var players []domain.PlayerProfile
	if err := s.c.gw.Get(ctx, "/scout/shortlist", nil, &players); err != nil {
		return nil, err
	}
	s.c.resolvePlayers(players)
	return players, nil
}

// AddToShortlist shortlists a player
func (s *Scout) AddToShortlist(ctx context.Context, playerID domain.ID) error {
	return s.c.gw.Post(ctx, "/scout/shortlist", shortlistRequest{PlayerID: playerID}, nil)
}

// RemoveFromShortlist removes a player from the shortlist
func (s *Scout) RemoveFromShortlist(ctx context.Context, playerID domain.ID) error {
	return s.c.gw.Delete(ctx, "/scout/shortlist/"+segment(playerID), nil)
}

// Invite sends a tryout invitation
func (s *Scout) Invite(ctx context.Context, slot domain.InvitationSlot) (*domain.Invitation, error) {
	var inv domain.Invitation
	body := inviteRequest{TryoutID: slot.TryoutID, PlayerID: slot.PlayerID}
	if err := s.c.gw.Post(ctx, "/scout/invite", body, &inv); err != nil {
		return nil, err
	}
	if inv.TryoutID == "" {
		inv.TryoutID = slot.TryoutID
	}
	if inv.PlayerID == "" {
		inv.PlayerID = slot.PlayerID
	}
	if inv.Status == "" {
		inv.Status = domain.InvitationPending
	}
	return &inv, nil
}

// CancelInvitation withdraws a sent invitation
func (s *Scout) CancelInvitation(ctx context.Context, invitationID domain.ID) error {
	return s.c.gw.Delete(ctx, "/scout/invitations/"+segment(invitationID), nil)
}

// GetSentInvitations returns invitations the scout has sent
func (s *Scout) GetSentInvitations(ctx context.Context) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := s.c.gw.Get(ctx, "/player/scout-invitations", nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// GetTryouts returns the scout's tryouts
func (s *Scout) GetTryouts(ctx context.Context) ([]domain.Tryout, error) {
	var tryouts []domain.Tryout
	if err := s.c.gw.Get(ctx, "/scout/tryouts", nil, &tryouts); err != nil {
		return nil, err
	}
	return tryouts, nil
}

// CreateTryout schedules a tryout
func (s *Scout) CreateTryout(ctx context.Context, t domain.Tryout) (*domain.Tryout, error) {
	var created domain.Tryout
	if err := s.c.gw.Post(ctx, "/scout/tryouts", t, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		created = t
	}
	return &created, nil
}

// UpdateTryout edits a tryout
func (s *Scout) UpdateTryout(ctx context.Context, t domain.Tryout) (*domain.Tryout, error) {
	var updated domain.Tryout
	if err := s.c.gw.Put(ctx, "/scout/tryouts/"+segment(t.ID), t, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		updated = t
	}
	return &updated, nil
}

// DeleteTryout cancels a tryout
func (s *Scout) DeleteTryout(ctx context.Context, tryoutID domain.ID) error {
	return s.c.gw.Delete(ctx, "/scout/tryouts/"+segment(tryoutID), nil)
}
