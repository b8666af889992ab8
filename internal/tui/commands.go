package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/service"
)

// Command factories for async operations

const callTimeout = 60 * time.Second

// LoginCmd logs in with email and password
func LoginCmd(ctx context.Context, svc *service.AuthService, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		user, err := svc.Login(ctx, domain.LoginRequest{Email: email, Password: password})
		if err != nil {
			return ErrMsg{Err: err, Context: "login"}
		}
		return LoggedInMsg{User: user}
	}
}

// LogoutCmd clears the session
func LogoutCmd(svc *service.AuthService) tea.Cmd {
	return func() tea.Msg {
		svc.Logout()
		return LoggedOutMsg{}
	}
}

// LoadFeedCmd loads one feed page
func LoadFeedCmd(ctx context.Context, svc *service.FeedService, q domain.FeedQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		page, stale, err := svc.LoadFeed(ctx, q)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading feed", Tab: TabFeed}
		}
		return FeedLoadedMsg{Page: page, Query: q, Stale: stale}
	}
}

// LoadFeedDetailsCmd loads likes and comments for the posts on a page
func LoadFeedDetailsCmd(ctx context.Context, svc *service.FeedService, videoIDs []domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.LoadLikes(ctx, videoIDs); err != nil {
			return ErrMsg{Err: err, Context: "loading likes"}
		}
		if _, err := svc.LoadComments(ctx, videoIDs); err != nil {
			return ErrMsg{Err: err, Context: "loading comments"}
		}
		return FeedDetailsMsg{}
	}
}

// ToggleLikeCmd likes or unlikes a post
func ToggleLikeCmd(ctx context.Context, svc *service.FeedService, videoID domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if _, err := svc.ToggleLike(ctx, videoID); err != nil {
			return ErrMsg{Err: err, Context: "like"}
		}
		return StoreChangedMsg{}
	}
}

// AddCommentCmd posts a comment
func AddCommentCmd(ctx context.Context, svc *service.FeedService, videoID domain.ID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if _, err := svc.AddComment(ctx, videoID, content); err != nil {
			return ErrMsg{Err: err, Context: "comment"}
		}
		return ActionDoneMsg{}
	}
}

// DeleteCommentCmd removes a comment. Admins moderate through the admin
// service; everyone else may only remove their own.
func DeleteCommentCmd(ctx context.Context, svc Services, c domain.Comment, asAdmin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		var err error
		if asAdmin {
			err = svc.Admin.DeleteComment(ctx, c.ID)
			if err == nil {
				_, err = svc.Feed.LoadComments(ctx, []domain.ID{c.VideoID})
			}
		} else {
			err = svc.Feed.DeleteComment(ctx, c)
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "delete comment"}
		}
		return ActionDoneMsg{}
	}
}

// OpenMediaCmd hands a post to the external viewer
func OpenMediaCmd(svc *service.FeedService, v domain.Video) tea.Cmd {
	return func() tea.Msg {
		if err := svc.OpenMedia(v); err != nil {
			return ErrMsg{Err: err, Context: "open media"}
		}
		return StoreChangedMsg{}
	}
}

// DeletePostCmd removes a post as its owner or as an admin
func DeletePostCmd(ctx context.Context, svc Services, videoID domain.ID, asAdmin bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		var err error
		if asAdmin {
			err = svc.Admin.DeleteMedia(ctx, videoID)
		} else {
			err = svc.Feed.DeleteVideo(ctx, videoID)
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "delete post"}
		}
		return ActionDoneMsg{Reload: TabFeed}
	}
}

// UploadCmd compresses and uploads a file. Compression may run for
// minutes, so only the root context bounds it.
func UploadCmd(ctx context.Context, svc *service.UploadService, path, description string) tea.Cmd {
	return func() tea.Msg {
		if _, err := svc.Upload(ctx, path, description); err != nil {
			return ErrMsg{Err: err, Context: "upload"}
		}
		return ActionDoneMsg{Reload: TabFeed}
	}
}

// LoadFilterOptionsCmd loads clubs and positions for suggestions
func LoadFilterOptionsCmd(ctx context.Context, load func(context.Context) (*domain.FilterOptions, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		opts, err := load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading filter options"}
		}
		return FilterOptionsMsg{Options: opts}
	}
}

// LoadShortlistCmd loads the scout's shortlist
func LoadShortlistCmd(ctx context.Context, svc *service.ScoutingService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		players, err := svc.LoadShortlist(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading shortlist", Tab: TabShortlist}
		}
		return ShortlistLoadedMsg{Players: players}
	}
}

// SearchPlayersCmd searches players by name
func SearchPlayersCmd(ctx context.Context, svc *service.ScoutingService, query string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		res, err := svc.Search(ctx, domain.SearchFilters{Name: query, Limit: limit})
		if err != nil {
			return ErrMsg{Err: err, Context: "search", Tab: TabShortlist}
		}
		return SearchResultsMsg{Query: query, Result: res}
	}
}

// ToggleShortlistCmd adds or removes a player from the shortlist
func ToggleShortlistCmd(ctx context.Context, svc *service.ScoutingService, player domain.PlayerProfile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.ToggleShortlist(ctx, player); err != nil {
			return ErrMsg{Err: err, Context: "shortlist"}
		}
		return StoreChangedMsg{}
	}
}

// LoadTryoutsCmd loads the scout's tryouts
func LoadTryoutsCmd(ctx context.Context, svc *service.ScoutingService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		tryouts, err := svc.Tryouts(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading tryouts"}
		}
		return TryoutsLoadedMsg{Tryouts: tryouts}
	}
}

// SendInvitationCmd invites a player to a tryout
func SendInvitationCmd(ctx context.Context, svc *service.ScoutingService, slot domain.InvitationSlot) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if _, err := svc.SendInvitation(ctx, slot); err != nil {
			return ErrMsg{Err: err, Context: "invite"}
		}
		return StoreChangedMsg{}
	}
}

// CancelInvitationCmd withdraws a sent invitation
func CancelInvitationCmd(ctx context.Context, svc *service.ScoutingService, slot domain.InvitationSlot) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.CancelInvitation(ctx, slot); err != nil {
			return ErrMsg{Err: err, Context: "cancel invitation"}
		}
		return StoreChangedMsg{}
	}
}

// LoadSentInvitationsCmd loads invitations the scout has sent
func LoadSentInvitationsCmd(ctx context.Context, svc *service.ScoutingService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		invs, err := svc.LoadSentInvitations(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading invitations", Tab: TabInvitations}
		}
		return InvitationsLoadedMsg{Invitations: invs}
	}
}

// LoadReceivedInvitationsCmd loads invitations the player has received
func LoadReceivedInvitationsCmd(ctx context.Context, svc *service.PlayerService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		invs, err := svc.LoadInvitations(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading invitations", Tab: TabInvitations}
		}
		return InvitationsLoadedMsg{Invitations: invs}
	}
}

// RespondCmd accepts or declines an invitation
func RespondCmd(ctx context.Context, svc *service.PlayerService, id domain.ID, status domain.InvitationStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if _, err := svc.RespondToInvitation(ctx, id, status); err != nil {
			return ErrMsg{Err: err, Context: "respond"}
		}
		return StoreChangedMsg{}
	}
}

// LoadNotificationsCmd loads a notification page
func LoadNotificationsCmd(ctx context.Context, svc *service.NotificationService, page, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		res, err := svc.List(ctx, page, limit)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading notifications", Tab: TabNotifications}
		}
		return NotificationsLoadedMsg{Page: res}
	}
}

// MarkReadCmd marks one notification read
func MarkReadCmd(ctx context.Context, svc *service.NotificationService, id domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.MarkRead(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "mark read"}
		}
		return ActionDoneMsg{Reload: TabNotifications}
	}
}

// MarkAllReadCmd marks every notification read
func MarkAllReadCmd(ctx context.Context, svc *service.NotificationService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.MarkAllRead(ctx); err != nil {
			return ErrMsg{Err: err, Context: "mark all read"}
		}
		return ActionDoneMsg{Reload: TabNotifications}
	}
}

// DeleteNotificationCmd removes a notification
func DeleteNotificationCmd(ctx context.Context, svc *service.NotificationService, n domain.Notification) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.Delete(ctx, n); err != nil {
			return ErrMsg{Err: err, Context: "delete notification"}
		}
		return ActionDoneMsg{Reload: TabNotifications}
	}
}

// LoadUsersCmd loads every account for moderation
func LoadUsersCmd(ctx context.Context, svc *service.AdminService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		users, err := svc.Users(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading users", Tab: TabAdmin}
		}
		return UsersLoadedMsg{Users: users}
	}
}

// DeleteUserCmd removes an account
func DeleteUserCmd(ctx context.Context, svc *service.AdminService, id domain.ID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.DeleteUser(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "delete user"}
		}
		return ActionDoneMsg{Reload: TabAdmin}
	}
}

// SetUserStatusCmd changes an account's moderation status
func SetUserStatusCmd(ctx context.Context, svc *service.AdminService, id domain.ID, status domain.UserStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		if err := svc.SetUserStatus(ctx, id, status); err != nil {
			return ErrMsg{Err: err, Context: "set status"}
		}
		return ActionDoneMsg{Reload: TabAdmin}
	}
}

// ResetPasswordCmd issues a temporary password
func ResetPasswordCmd(ctx context.Context, svc *service.AdminService, user domain.User) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		temp, err := svc.ResetPassword(ctx, user.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "reset password"}
		}
		return ActionDoneMsg{Status: "Temporary password for " + user.Name + ": " + temp}
	}
}

// ClearStatusCmd clears the status line after a delay
func ClearStatusCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
