package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pharaohs/pitchside/internal/domain"
)

// Admin implements domain.AdminRepository
type Admin struct {
	c *Client
}

// ListMedia returns every uploaded post
func (a *Admin) ListMedia(ctx context.Context) ([]domain.Video, error) {
	var videos []domain.Video
	if err := a.c.gw.Get(ctx, "/admin/media", nil, &videos); err != nil {
		return nil, err
	}
	a.c.resolveVideos(videos)
	return videos, nil
}

// DeleteMedia removes any post
func (a *Admin) DeleteMedia(ctx context.Context, id domain.ID) error {
	return a.c.gw.Delete(ctx, "/admin/media/"+segment(id), nil)
}

// ListUsers returns every account
func (a *Admin) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.c.gw.Get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account
func (a *Admin) DeleteUser(ctx context.Context, id domain.ID) error {
	return a.c.gw.Delete(ctx, "/admin/users/"+segment(id), nil)
}

// SetUserStatus activates, deactivates, or suspends an account
func (a *Admin) SetUserStatus(ctx context.Context, id domain.ID, status domain.UserStatus) error {
	return a.c.gw.Put(ctx, "/admin/users/"+segment(id)+"/status", statusRequest{Status: string(status)}, nil)
}

// ResetPassword issues a temporary password
func (a *Admin) ResetPassword(ctx context.Context, id domain.ID) (string, error) {
	var res resetPasswordResponse
	if err := a.c.gw.Post(ctx, "/admin/users/"+segment(id)+"/reset-password", struct{}{}, &res); err != nil {
		return "", err
	}
	return res.TempPassword, nil
}

// GetLogs returns a page of audit logs
func (a *Admin) GetLogs(ctx context.Context, filter domain.LogFilter) (*domain.LogPage, error) {
	q := url.Values{}
	if filter.StartDate != "" {
		q.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		q.Set("endDate", filter.EndDate)
	}
	if filter.Action != "" {
		q.Set("action", filter.Action)
	}
	if filter.EntityType != "" {
		q.Set("entityType", filter.EntityType)
	}
	if filter.UserID != "" {
		q.Set("userId", filter.UserID.String())
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	var page domain.LogPage
	if err := a.c.gw.Get(ctx, "/admin/logs", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetLocations returns the configured tryout locations
func (a *Admin) GetLocations(ctx context.Context) ([]string, error) {
	var locations []string
	if err := a.c.gw.Get(ctx, "/admin/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// AddLocation adds a tryout location
func (a *Admin) AddLocation(ctx context.Context, location string) error {
	return a.c.gw.Post(ctx, "/admin/locations", locationRequest{Location: location}, nil)
}

// DeleteLocation removes a tryout location
func (a *Admin) DeleteLocation(ctx context.Context, location string) error {
	return a.c.gw.Delete(ctx, "/admin/locations/"+url.PathEscape(location), nil)
}
