// Package backend is the typed REST client for the recruiting API. Every
// call goes through the gateway, so auth headers, timeouts, the busy
// indicator, and error notices apply uniformly.
package backend

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
)

// Compile-time interface checks
var (
	_ domain.AuthRepository         = (*Client)(nil)
	_ domain.FeedRepository         = (*Client)(nil)
	_ domain.PlayerRepository       = (*Player)(nil)
	_ domain.ScoutRepository        = (*Scout)(nil)
	_ domain.NotificationRepository = (*Client)(nil)
	_ domain.AdminRepository        = (*Admin)(nil)
)

// Client talks to the backend API
type Client struct {
	gw            *gateway.Client
	mediaBase     string
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// NewClient creates a backend client. mediaBase is the root relative media
// paths are joined to; empty means the origin (scheme and host) of the
// gateway's API root, where the backend serves uploads.
func NewClient(gw *gateway.Client, mediaBase string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if mediaBase == "" {
		mediaBase = origin(gw.BaseURL())
	}
	return &Client{
		gw:            gw,
		mediaBase:     strings.TrimRight(mediaBase, "/"),
		uploadTimeout: gateway.ExtendedTimeout,
		logger:        logger,
	}
}

// SetUploadTimeout overrides the timeout applied to video uploads
func (c *Client) SetUploadTimeout(d time.Duration) {
	if d > 0 {
		c.uploadTimeout = d
	}
}

// Player returns the player-side repository
func (c *Client) Player() *Player { return &Player{c} }

// Scout returns the scout-side repository
func (c *Client) Scout() *Scout { return &Scout{c} }

// Admin returns the moderation repository
func (c *Client) Admin() *Admin { return &Admin{c} }

// ResolveMediaURL turns a backend media path into an absolute URL.
// Absolute URLs pass through untouched.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.mediaBase + path
}

// origin strips the path from an absolute URL. Unparseable input comes
// back unchanged.
func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host
}

func (c *Client) resolveVideos(videos []domain.Video) {
	for i := range videos {
		videos[i].URL = c.ResolveMediaURL(videos[i].URL)
		if videos[i].Type == "" {
			videos[i].Type = domain.InferMediaType(videos[i].URL)
		}
	}
}

func (c *Client) resolvePlayer(p *domain.PlayerProfile) {
	if p == nil {
		return
	}
	p.ProfileImage = c.ResolveMediaURL(p.ProfileImage)
	c.resolveVideos(p.Videos)
}

func (c *Client) resolvePlayers(players []domain.PlayerProfile) {
	for i := range players {
		c.resolvePlayer(&players[i])
	}
}

func (c *Client) resolveScout(s *domain.ScoutProfile) {
	if s == nil {
		return
	}
	s.ProfileImage = c.ResolveMediaURL(s.ProfileImage)
	c.resolvePlayers(s.Shortlists)
}

// === Auth ===

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.gw.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and logs it in
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.gw.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func segment(id domain.ID) string {
	return url.PathEscape(id.String())
}
