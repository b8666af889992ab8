package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID is a backend identifier. The API sends ids as JSON numbers on some
// routes and as strings on others; both decode to the same ID.
type ID string

// UnmarshalJSON accepts a string, a number, or null
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so request bodies match what the
// backend expects.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) isNumeric() bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the id as a string
func (id ID) String() string { return string(id) }

// Role is the account role of a user
type Role string

const (
	RolePlayer Role = "player"
	RoleScout  Role = "scout"
	RoleAdmin  Role = "admin"
)

// UserStatus is the moderation status of an account
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// User is the authenticated account
type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// Is reports whether the user holds the given role. A nil user holds none.
func (u *User) Is(role Role) bool {
	return u != nil && u.Role == role
}

// PerformanceStats are the raw match statistics a rating is derived from
type PerformanceStats struct {
	MatchesPlayed int `json:"matches_played" validate:"gte=0"`
	Goals         int `json:"goals" validate:"gte=0"`
	Assists       int `json:"assists" validate:"gte=0"`
	YellowCards   int `json:"yellow_cards" validate:"gte=0"`
	RedCards      int `json:"red_cards" validate:"gte=0"`
}

// MediaType distinguishes uploaded posts
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeImage MediaType = "image"
)

// Video is an uploaded post (video or image) shown in the feed
type Video struct {
	ID          ID        `json:"id"`
	URL         string    `json:"url"`
	Type        MediaType `json:"type"`
	Description string    `json:"description,omitempty"`
	PlayerID    ID        `json:"playerId"`
	PlayerName  string    `json:"player_name,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   string    `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both snake and camel case variants of the
// player and timestamp fields.
func (v *Video) UnmarshalJSON(b []byte) error {
	type alias Video
	var raw struct {
		alias
		PlayerIDSnake  ID     `json:"player_id"`
		CreatedAtSnake string `json:"created_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = Video(raw.alias)
	if v.PlayerID == "" {
		v.PlayerID = raw.PlayerIDSnake
	}
	if v.CreatedAt == "" {
		v.CreatedAt = raw.CreatedAtSnake
	}
	if v.Type == "" {
		v.Type = InferMediaType(v.URL)
	}
	return nil
}

// InferMediaType guesses the post type from its URL extension
func InferMediaType(url string) MediaType {
	lower := strings.ToLower(url)
	if strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".webm") {
		return MediaTypeVideo
	}
	return MediaTypeImage
}

// PlayerProfile is a player's public or private profile
type PlayerProfile struct {
	ID            ID                `json:"id"`
	UserID        ID                `json:"user_id,omitempty"`
	Name          string            `json:"name"`
	Email         string            `json:"email,omitempty"`
	ProfileImage  string            `json:"profileImage,omitempty"`
	DateOfBirth   string            `json:"date_of_birth,omitempty"`
	Age           int               `json:"age,omitempty"`
	Position      string            `json:"position,omitempty"`
	Club          string            `json:"club,omitempty"`
	Bio           string            `json:"bio,omitempty"`
	Rating        float64           `json:"rating,omitempty"`
	Videos        []Video           `json:"videos,omitempty"`
	Stats         *PerformanceStats `json:"stats,omitempty"`
	Performance   *PerformanceStats `json:"performanceStats,omitempty"`
	VideoCount    int               `json:"videoCount,omitempty"`
	IsShortlisted bool              `json:"isShortlisted,omitempty"`
	HasStats      bool              `json:"hasStats,omitempty"`
	CreatedAt     string            `json:"createdAt,omitempty"`
}

// PerformanceStats returns whichever stats block the backend populated
func (p *PlayerProfile) PerformanceStats() *PerformanceStats {
	if p == nil {
		return nil
	}
	if p.Stats != nil {
		return p.Stats
	}
	return p.Performance
}

// ProfileUpdate carries editable player profile fields
type ProfileUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Position    string `json:"position,omitempty" validate:"omitempty,max=50"`
	Club        string `json:"club,omitempty" validate:"omitempty,max=100"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	DateOfBirth string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ScoutProfile is a scout's profile
type ScoutProfile struct {
	ID              ID              `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Organization    string          `json:"organization,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	ProfileImage    string          `json:"profileImage,omitempty"`
	Shortlists      []PlayerProfile `json:"shortlists,omitempty"`
	TryoutCount     int             `json:"tryoutCount,omitempty"`
	InvitationCount int             `json:"invitationCount,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// ScoutProfileUpdate carries editable scout profile fields
type ScoutProfileUpdate struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Organization string `json:"organization,omitempty" validate:"omitempty,max=100"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// Tryout is a scout-organised trial event
type Tryout struct {
	ID             ID     `json:"id"`
	Name           string `json:"name" validate:"required,min=3,max=100"`
	Location       string `json:"location" validate:"required"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time,omitempty"`
	PlayersInvited []ID   `json:"playersInvited,omitempty"`
}

// InvitationStatus is the lifecycle state of a tryout invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks a player to attend a tryout
type Invitation struct {
	ID         ID               `json:"id"`
	PlayerID   ID               `json:"playerId"`
	ScoutID    ID               `json:"scoutId,omitempty"`
	TryoutID   ID               `json:"tryoutId"`
	Status     InvitationStatus `json:"status"`
	TryoutName string           `json:"tryoutName,omitempty"`
	ScoutName  string           `json:"scoutName,omitempty"`
	ScoutEmail string           `json:"scout_email,omitempty"`
	PlayerName string           `json:"playerName,omitempty"`
	Location   string           `json:"location,omitempty"`
	Date       string           `json:"date,omitempty"`
	Message    string           `json:"message,omitempty"`
	CreatedAt  string           `json:"createdAt,omitempty"`
}

// UnmarshalJSON folds the snake case variants the backend emits on
// some routes into the canonical fields.
func (inv *Invitation) UnmarshalJSON(b []byte) error {
	type alias Invitation
	var raw struct {
		alias
		InvitationID   ID     `json:"invitation_id"`
		PlayerIDSnake  ID     `json:"player_id"`
		ScoutIDSnake   ID     `json:"scout_id"`
		TryoutIDSnake  ID     `json:"tryout_id"`
		TryoutNameSn   string `json:"tryout_name"`
		ScoutNameSn    string `json:"scout_name"`
		PlayerNameSn   string `json:"player_name"`
		CreatedAtSnake string `json:"created_at"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*inv = Invitation(raw.alias)
	inv.ID = firstID(inv.ID, raw.InvitationID)
	inv.PlayerID = firstID(inv.PlayerID, raw.PlayerIDSnake)
	inv.ScoutID = firstID(inv.ScoutID, raw.ScoutIDSnake)
	inv.TryoutID = firstID(inv.TryoutID, raw.TryoutIDSnake)
	inv.TryoutName = firstString(inv.TryoutName, raw.TryoutNameSn)
	inv.ScoutName = firstString(inv.ScoutName, raw.ScoutNameSn)
	inv.PlayerName = firstString(inv.PlayerName, raw.PlayerNameSn)
	inv.CreatedAt = firstString(inv.CreatedAt, raw.CreatedAtSnake)
	return nil
}

// InvitationSlot identifies a (tryout, player) pair a scout can invite
type InvitationSlot struct {
	TryoutID ID
	PlayerID ID
}

// Key returns the store key for the slot
func (s InvitationSlot) Key() string {
	return string(s.TryoutID) + ":" + string(s.PlayerID)
}

// Comment is a remark on a post
type Comment struct {
	ID            ID     `json:"id"`
	UserID        ID     `json:"user_id"`
	VideoID       ID     `json:"video_id,omitempty"`
	Content       string `json:"content"`
	CommenterName string `json:"user_name,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// LikeInfo is the server view of a post's likes
type LikeInfo struct {
	VideoID     ID   `json:"video_id"`
	LikeCount   int  `json:"likeCount"`
	LikedByUser bool `json:"likedByUser"`
}

// UnmarshalJSON accepts likedByUser as a boolean or as 0/1
func (l *LikeInfo) UnmarshalJSON(b []byte) error {
	var raw struct {
		VideoID     ID              `json:"video_id"`
		LikeCount   int             `json:"likeCount"`
		LikedByUser json.RawMessage `json:"likedByUser"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.VideoID = raw.VideoID
	l.LikeCount = raw.LikeCount
	switch strings.TrimSpace(string(raw.LikedByUser)) {
	case "true", "1", `"1"`:
		l.LikedByUser = true
	default:
		l.LikedByUser = false
	}
	return nil
}

// LikeState is the client view of a post's likes. Whether a toggle is
// still in flight is not part of the value; ask the likes store
// (optimistic.Store.Pending, reached through FeedService.Likes).
type LikeState struct {
	Count              int
	LikedByCurrentUser bool
}

// Notification is an in-app message for the current user
type Notification struct {
	ID        ID     `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// PageInfo describes page-numbered pagination
type PageInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NotificationPage is one page of notifications
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Pagination    PageInfo       `json:"pagination"`
	UnreadCount   int            `json:"unreadCount"`
}

// FeedPage is one page of players with their posts
type FeedPage struct {
	Players    []PlayerProfile `json:"players"`
	Pagination PageInfo        `json:"pagination"`
}

// FeedQuery filters the feed
type FeedQuery struct {
	Page      int
	Limit     int
	Club      string
	Position  string
	Search    string
	MinRating float64
}

// SearchFilters narrows a scout's player search
type SearchFilters struct {
	Name      string  `json:"name,omitempty"`
	Position  string  `json:"position,omitempty"`
	Club      string  `json:"club,omitempty"`
	MinAge    int     `json:"minAge,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxAge    int     `json:"maxAge,omitempty" validate:"omitempty,gte=0,lte=100,gtefield=MinAge"`
	HasVideos bool    `json:"hasVideos,omitempty"`
	MinRating float64 `json:"minRating,omitempty" validate:"omitempty,gte=1,lte=5"`
	SortBy    string  `json:"sortBy,omitempty"`
	SortOrder string  `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
	Limit     int     `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
	Offset    int     `json:"offset,omitempty" validate:"omitempty,gte=0"`
}

// OffsetInfo describes offset pagination
type OffsetInfo struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// SearchResult is one page of player search results
type SearchResult struct {
	Players    []PlayerProfile `json:"players"`
	Pagination OffsetInfo      `json:"pagination"`
}

// AgeRange bounds the ages in a search
type AgeRange struct {
	MinAge int `json:"minAge"`
	MaxAge int `json:"maxAge"`
}

// FilterOptions lists the values a search can filter by
type FilterOptions struct {
	Positions []string `json:"positions"`
	Clubs     []string `json:"clubs"`
	AgeRange  AgeRange `json:"ageRange"`
}

// PlayerSummary is the player's own activity summary
type PlayerSummary struct {
	MediaCount       int               `json:"mediaCount"`
	InvitationCount  int               `json:"invitationCount"`
	PendingCount     int               `json:"pendingCount"`
	PerformanceStats *PerformanceStats `json:"performanceStats,omitempty"`
}

// RecentTryout is a tryout row on the dashboard
type RecentTryout struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// RoleCount is a user count per role
type RoleCount struct {
	Role      Role `json:"role"`
	UserCount int  `json:"userCount"`
}

// DashboardData holds the role-specific dashboard figures
type DashboardData struct {
	Name               string         `json:"name,omitempty"`
	MediaCount         int            `json:"mediaCount,omitempty"`
	PendingInvitations int            `json:"pendingInvitations,omitempty"`
	RecentMedia        []Video        `json:"recentMedia,omitempty"`
	TryoutCount        int            `json:"tryoutCount,omitempty"`
	InvitationCount    int            `json:"invitationCount,omitempty"`
	RecentTryouts      []RecentTryout `json:"recentTryouts,omitempty"`
	TotalUsers         int            `json:"totalUsers,omitempty"`
	UserBreakdown      []RoleCount    `json:"userBreakdown,omitempty"`
	TotalMedia         int            `json:"totalMedia,omitempty"`
}

// Dashboard is the landing summary for any role
type Dashboard struct {
	Role Role          `json:"role"`
	Data DashboardData `json:"data"`
}

// SystemLog is an audit log entry
type SystemLog struct {
	ID         ID     `json:"id"`
	UserID     ID     `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
	IPAddress  string `json:"ip_address"`
	CreatedAt  string `json:"created_at"`
}

// LogFilter narrows an audit log query
type LogFilter struct {
	StartDate  string `validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `validate:"omitempty,datetime=2006-01-02"`
	Action     string
	EntityType string
	UserID     ID
	Limit      int `validate:"omitempty,gte=1,lte=500"`
	Offset     int `validate:"omitempty,gte=0"`
}

// LogPage is one page of audit logs
type LogPage struct {
	Logs       []SystemLog `json:"logs"`
	Pagination OffsetInfo  `json:"pagination"`
}

func firstID(ids ...ID) ID {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
