package domain

// SessionRecord is the persisted login state
type SessionRecord struct {
	Token string `json:"auth_token"`
	User  *User  `json:"current_user,omitempty"`
}

// Store handles the local cache (BoltDB + memory).
// Cached lists are offline fallbacks; the backend stays authoritative.
type Store interface {
	// === Session ===
	GetSession() (*SessionRecord, bool)
	SaveSession(rec SessionRecord) error
	ClearSession()

	// === Feed ===
	GetFeed(page int) (*FeedPage, bool)
	SaveFeed(page int, feed *FeedPage) error

	// === Scouting ===
	GetShortlist() ([]PlayerProfile, bool)
	SaveShortlist(players []PlayerProfile) error

	// === Invitations (key: "received" or "sent") ===
	GetInvitations(key string) ([]Invitation, bool)
	SaveInvitations(key string, invitations []Invitation) error

	// === Notifications ===
	GetNotifications() (*NotificationPage, bool)
	SaveNotifications(page *NotificationPage) error

	// === Invalidation ===
	InvalidateAll()

	Close() error
}
