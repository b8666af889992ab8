package tui

import (
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
)

// Message types for the TUI

// ErrMsg represents a failed command. The user has already been told
// through a notice; the model only clears loading state.
type ErrMsg struct {
	Err     error
	Context string
	Tab     Tab
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LoggedInMsg signals a successful login
type LoggedInMsg struct {
	User *domain.User
}

// LoggedOutMsg signals the session ended, by logout or expiry
type LoggedOutMsg struct{}

// FeedLoadedMsg carries a feed page
type FeedLoadedMsg struct {
	Page  *domain.FeedPage
	Query domain.FeedQuery
	Stale bool // served from the offline cache
}

// FeedDetailsMsg signals likes and comments for the page are in
type FeedDetailsMsg struct{}

// FilterOptionsMsg carries clubs and positions for suggestions
type FilterOptionsMsg struct {
	Options *domain.FilterOptions
}

// ShortlistLoadedMsg carries the scout's shortlist
type ShortlistLoadedMsg struct {
	Players []domain.PlayerProfile
}

// SearchResultsMsg carries player search results
type SearchResultsMsg struct {
	Query  string
	Result *domain.SearchResult
}

// TryoutsLoadedMsg carries the scout's tryouts for the invite prompt
type TryoutsLoadedMsg struct {
	Tryouts []domain.Tryout
}

// InvitationsLoadedMsg carries received or sent invitations
type InvitationsLoadedMsg struct {
	Invitations []domain.Invitation
}

// NotificationsLoadedMsg carries a notification page
type NotificationsLoadedMsg struct {
	Page *domain.NotificationPage
}

// UsersLoadedMsg carries the admin user list
type UsersLoadedMsg struct {
	Users []domain.User
}

// ActionDoneMsg signals a mutation finished. Reload names the tab whose
// list should be fetched again.
type ActionDoneMsg struct {
	Reload Tab
	Status string // optional footer text
}

// StoreChangedMsg signals an optimistic store changed
type StoreChangedMsg struct{}

// BusyMsg mirrors the request indicator
type BusyMsg struct {
	Visible bool
}

// NoticeMsg carries a user-facing notice
type NoticeMsg struct {
	Notice notice.Notice
}

// UnreadMsg carries the unread notification count
type UnreadMsg struct {
	Count int
}

// ClearStatusMsg clears the status line if it is still the one set at Seq
type ClearStatusMsg struct {
	Seq int
}
