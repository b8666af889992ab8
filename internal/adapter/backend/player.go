package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
)

// Player implements domain.PlayerRepository
type Player struct {
	c *Client
}

// GetProfile returns the current player's profile
func (p *Player) GetProfile(ctx context.Context) (*domain.PlayerProfile, error) {
	var profile domain.PlayerProfile
	if err := p.c.gw.Get(ctx, "/player/profile", nil, &profile); err != nil {
		return nil, err
	}
	p.c.resolvePlayer(&profile)
	return &profile, nil
}

// UpdateProfile sends the editable fields and an optional new picture
func (p *Player) UpdateProfile(ctx context.Context, update domain.ProfileUpdate, avatar *domain.MediaAsset) (*domain.PlayerProfile, error) {
	form := &gateway.Multipart{}
	for _, f := range []gateway.Field{
		{Name: "name", Value: update.Name},
		{Name: "position", Value: update.Position},
		{Name: "club", Value: update.Club},
		{Name: "bio", Value: update.Bio},
		{Name: "date_of_birth", Value: update.DateOfBirth},
	} {
		if f.Value != "" {
			form.Fields = append(form.Fields, f)
		}
	}
	if avatar != nil {
		form.Files = append(form.Files, gateway.FilePart{
			Field:       "profileImage",
			FileName:    avatar.Name,
			Path:        avatar.Path,
			ContentType: avatar.MimeType,
		})
	}

	var res profileUpdateResponse
	req := gateway.Request{Method: http.MethodPut, Path: "/player/profile", Multipart: form}
	if err := p.c.gw.Do(ctx, req, &res); err != nil {
		return nil, err
	}

	if res.UpdatedProfile == nil {
		return p.GetProfile(ctx)
	}
	profile := res.UpdatedProfile
	if res.ProfileImage != "" {
		profile.ProfileImage = res.ProfileImage
	}
	p.c.resolvePlayer(profile)
	return profile, nil
}

// DeleteProfilePicture removes the current picture
func (p *Player) DeleteProfilePicture(ctx context.Context) error {
	return p.c.gw.Delete(ctx, "/player/profile/picture", nil)
}

// GetPublicProfile returns another player's public profile
func (p *Player) GetPublicProfile(ctx context.Context, playerID domain.ID) (*domain.PlayerProfile, error) {
	var profile domain.PlayerProfile
	if err := p.c.gw.Get(ctx, "/player/public-profile/"+segment(playerID), nil, &profile); err != nil {
		return nil, err
	}
	p.c.resolvePlayer(&profile)
	return &profile, nil
}

// GetInvitations returns tryout invitations received by the player
func (p *Player) GetInvitations(ctx context.Context) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := p.c.gw.Get(ctx, "/player/invitations", nil, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// RespondToInvitation accepts or declines an invitation
func (p *Player) RespondToInvitation(ctx context.Context, invitationID domain.ID, status domain.InvitationStatus) error {
	return p.c.gw.Put(ctx, "/player/invitations/"+segment(invitationID), statusRequest{Status: string(status)}, nil)
}

// GetVideos returns the player's own posts
func (p *Player) GetVideos(ctx context.Context) ([]domain.Video, error) {
	var videos []domain.Video
	if err := p.c.gw.Get(ctx, "/player/videos", nil, &videos); err != nil {
		return nil, err
	}
	p.c.resolveVideos(videos)
	return videos, nil
}

// Upload publishes a post. Videos get the extended timeout.
func (p *Player) Upload(ctx context.Context, req domain.UploadRequest) (string, error) {
	if req.Asset == nil {
		return "", fmt.Errorf("upload: no file")
	}

	mediaType := req.Type
	if mediaType == "" {
		mediaType = domain.MediaTypeImage
		if req.Asset.Kind == domain.MediaVideo {
			mediaType = domain.MediaTypeVideo
		}
	}

	timeout := gateway.DefaultTimeout
	if mediaType == domain.MediaTypeVideo {
		timeout = p.c.uploadTimeout
	}

	form := &gateway.Multipart{
		Fields: []gateway.Field{
			{Name: "type", Value: string(mediaType)},
			{Name: "description", Value: req.Description},
		},
		Files: []gateway.FilePart{{
			Field:       "file",
			FileName:    req.Asset.Name,
			Path:        req.Asset.Path,
			ContentType: req.Asset.MimeType,
		}},
	}

	var res uploadResponse
	err := p.c.gw.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/player/upload",
		Multipart: form,
		Timeout:   timeout,
	}, &res)
	if err != nil {
		return "", err
	}
	return p.c.ResolveMediaURL(res.url()), nil
}

// GetStats returns the player's activity summary
func (p *Player) GetStats(ctx context.Context) (*domain.PlayerSummary, error) {
	var summary domain.PlayerSummary
	if err := p.c.gw.Get(ctx, "/player/stats", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdatePerformanceStats replaces the player's match statistics
func (p *Player) UpdatePerformanceStats(ctx context.Context, stats domain.PerformanceStats) (*domain.PerformanceStats, error) {
	var res statsResponse
	if err := p.c.gw.Post(ctx, "/player/performance-stats", stats, &res); err != nil {
		return nil, err
	}
	return &res.Stats, nil
}

// GetDashboard returns the role-specific landing summary
func (p *Player) GetDashboard(ctx context.Context) (*domain.Dashboard, error) {
	var dash domain.Dashboard
	if err := p.c.gw.Get(ctx, "/player/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	p.c.resolveVideos(dash.Data.RecentMedia)
	return &dash, nil
}

// GetFilterOptions returns the feed filter values
func (p *Player) GetFilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	var opts domain.FilterOptions
	if err := p.c.gw.Get(ctx, "/player/filter-options", nil, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
