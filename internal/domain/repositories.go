package domain

import (
	"context"
)

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest holds sign-up fields
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" validate:"required,oneof=player scout"`
	DateOfBirth     string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AuthResult is returned by login and registration
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthRepository authenticates against the backend
type AuthRepository interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
}

// FeedRepository provides the post feed and its interactions
type FeedRepository interface {
	// GetFeed returns a page of players with their posts
	GetFeed(ctx context.Context, q FeedQuery) (*FeedPage, error)

	// GetLikes returns like info for every post the caller can see
	GetLikes(ctx context.Context) ([]LikeInfo, error)

	// Like and Unlike return the server like count when the response carries one
	Like(ctx context.Context, videoID ID) (*int, error)
	Unlike(ctx context.Context, videoID ID) (*int, error)

	GetComments(ctx context.Context, videoID ID) ([]Comment, error)
	AddComment(ctx context.Context, videoID ID, content string) error
	DeleteComment(ctx context.Context, commentID ID) error

	// DeleteVideo removes the caller's own post
	DeleteVideo(ctx context.Context, videoID ID) error
	UpdateVideo(ctx context.Context, videoID ID, description string) error
}

// PlayerRepository provides player-side operations
type PlayerRepository interface {
	GetProfile(ctx context.Context) (*PlayerProfile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate, avatar *MediaAsset) (*PlayerProfile, error)
	DeleteProfilePicture(ctx context.Context) error
	GetPublicProfile(ctx context.Context, playerID ID) (*PlayerProfile, error)

	GetInvitations(ctx context.Context) ([]Invitation, error)
	RespondToInvitation(ctx context.Context, invitationID ID, status InvitationStatus) error

	GetVideos(ctx context.Context) ([]Video, error)

	// Upload publishes a post and returns its URL
	Upload(ctx context.Context, req UploadRequest) (string, error)

	GetStats(ctx context.Context) (*PlayerSummary, error)
	UpdatePerformanceStats(ctx context.Context, stats PerformanceStats) (*PerformanceStats, error)
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
}

// ScoutRepository provides scout-side operations
type ScoutRepository interface {
	Search(ctx context.Context, filters SearchFilters) (*SearchResult, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
	GetLocations(ctx context.Context) ([]string, error)

	GetProfile(ctx context.Context) (*ScoutProfile, error)
	UpdateProfile(ctx context.Context, update ScoutProfileUpdate, avatar *MediaAsset) (*ScoutProfile, error)
	DeleteProfilePicture(ctx context.Context) error
	GetPublicProfile(ctx context.Context, scoutID ID) (*ScoutProfile, error)
	GetPublicTryouts(ctx context.Context, scoutID ID) ([]Tryout, error)

	GetShortlist(ctx context.Context) ([]PlayerProfile, error)
	AddToShortlist(ctx context.Context, playerID ID) error
	RemoveFromShortlist(ctx context.Context, playerID ID) error

	// Invite returns the created invitation
	Invite(ctx context.Context, slot InvitationSlot) (*Invitation, error)
	CancelInvitation(ctx context.Context, invitationID ID) error
	GetSentInvitations(ctx context.Context) ([]Invitation, error)

	GetTryouts(ctx context.Context) ([]Tryout, error)
	CreateTryout(ctx context.Context, t Tryout) (*Tryout, error)
	UpdateTryout(ctx context.Context, t Tryout) (*Tryout, error)
	DeleteTryout(ctx context.Context, tryoutID ID) error
}

// NotificationRepository provides the notification inbox
type NotificationRepository interface {
	List(ctx context.Context, page, limit int) (*NotificationPage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id ID) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id ID) error
}

// AdminRepository provides moderation operations
type AdminRepository interface {
	ListMedia(ctx context.Context) ([]Video, error)
	DeleteMedia(ctx context.Context, id ID) error

	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id ID) error
	SetUserStatus(ctx context.Context, id ID, status UserStatus) error

	// ResetPassword returns the temporary password issued by the backend
	ResetPassword(ctx context.Context, id ID) (string, error)

	GetLogs(ctx context.Context, filter LogFilter) (*LogPage, error)

	GetLocations(ctx context.Context) ([]string, error)
	AddLocation(ctx context.Context, location string) error
	DeleteLocation(ctx context.Context, location string) error
}

// MediaLauncher opens remote media in an external viewer
type MediaLauncher interface {
	Open(url string) error
}
