package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/rating"
	"github.com/pharaohs/pitchside/internal/search"
	"github.com/pharaohs/pitchside/internal/tui/components"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

// flattenFeed turns a page of players into one row per post
func flattenFeed(page *domain.FeedPage) []post {
	if page == nil {
		return nil
	}
	var posts []post
	for _, p := range page.Players {
		for _, v := range p.Videos {
			posts = append(posts, post{Player: p, Video: v})
		}
	}
	return posts
}

func (m *Model) refreshAllRows() {
	for _, tab := range m.Tabs {
		m.refreshRows(tab)
	}
}

// refreshRows rebuilds a tab's rows from the model and service state
func (m *Model) refreshRows(tab Tab) {
	col := m.Columns[tab]
	if col == nil {
		return
	}

	switch tab {
	case TabFeed:
		col.SetRows(m.feedRows())
		col.SetTitle(m.feedTitle())
	case TabShortlist:
		col.SetRows(m.shortlistRows())
		if m.searchQuery != "" {
			col.SetTitle(fmt.Sprintf("Search: %s (%d)", m.searchQuery, len(m.searchResults)))
		} else {
			col.SetTitle("Shortlist")
		}
	case TabInvitations:
		col.SetRows(m.invitationRows())
	case TabNotifications:
		col.SetRows(m.notificationRows())
		if m.notifPage.TotalPages > 1 {
			col.SetTitle(fmt.Sprintf("Notifications %d/%d", m.notifPage.Page, m.notifPage.TotalPages))
		} else {
			col.SetTitle("Notifications")
		}
	case TabAdmin:
		col.SetRows(m.userRows())
	}

	if tab == m.ActiveTab() {
		m.updateInspector()
	}
}

func (m Model) feedTitle() string {
	title := "Feed"
	if m.feedQuery.Club != "" {
		title += " · " + m.feedQuery.Club
	}
	if m.feedQuery.Search != "" {
		title += " · \"" + m.feedQuery.Search + "\""
	}
	if m.feedPage != nil && m.feedPage.Pagination.TotalPages > 1 {
		title += fmt.Sprintf(" %d/%d", m.feedQuery.Page, m.feedPage.Pagination.TotalPages)
	}
	if m.feedStale {
		title += " (offline)"
	}
	return title
}

func (m Model) feedRows() []components.Row {
	isAdmin := m.currentUser().Is(domain.RoleAdmin)
	rows := make([]components.Row, 0, len(m.posts))
	for _, p := range m.posts {
		row := components.Row{
			ID:     p.Video.ID,
			Title:  p.Player.Name,
			Detail: p.Video.Description,
		}
		switch {
		case m.svc.Feed.MediaFailed(p.Video.ID):
			row.Badge = styles.BrokenChar
			row.BadgeColor = &styles.Gold
		case isAdmin:
			row.Badge = mediaGlyph(p.Video.Type)
		default:
			st := m.svc.Feed.LikeState(p.Video.ID)
			glyph := styles.UnlikedChar
			if st.LikedByCurrentUser {
				glyph = styles.LikedChar
				row.BadgeColor = &styles.Red
			}
			row.Badge = fmt.Sprintf("%s %d", glyph, st.Count)
			row.Busy = m.svc.Feed.Likes().Pending(p.Video.ID)
		}
		rows = append(rows, row)
	}
	return rows
}

func mediaGlyph(t domain.MediaType) string {
	if t == domain.MediaTypeVideo {
		return "▶"
	}
	return "▣"
}

// shortlistPlayers returns search results while a search is shown,
// otherwise the shortlist
func (m Model) shortlistPlayers() []domain.PlayerProfile {
	if m.searchQuery != "" {
		return m.searchResults
	}
	if m.svc.Scouting == nil {
		return nil
	}
	return m.svc.Scouting.ShortlistedPlayers()
}

func (m Model) shortlistRows() []components.Row {
	players := m.shortlistPlayers()
	idx := search.Players(players).Entries()
	rows := make([]components.Row, len(players))
	for i, p := range players {
		badge := "☆"
		var color *lipgloss.Color
		if m.svc.Scouting.IsShortlisted(p.ID) {
			badge = "★"
			color = &styles.Gold
		}
		rows[i] = components.Row{
			ID:         p.ID,
			Title:      idx[i].Title,
			Detail:     joinDetail(idx[i].Detail, rating.Format(playerRating(p))),
			Badge:      badge,
			BadgeColor: color,
			Busy:       m.svc.Scouting.Shortlist().Pending(p.ID),
		}
	}
	return rows
}

// invitationList returns the invitations the current role sees
func (m Model) invitationList() []domain.Invitation {
	if m.currentUser().Is(domain.RoleScout) {
		return m.svc.Scouting.SentInvitations()
	}
	if m.svc.Player == nil {
		return nil
	}
	return m.svc.Player.Invitations()
}

func (m Model) invitationRows() []components.Row {
	scout := m.currentUser().Is(domain.RoleScout)
	invs := m.invitationList()
	idx := search.Invitations(invs).Entries()
	rows := make([]components.Row, len(invs))
	for i, inv := range invs {
		row := components.Row{
			ID:     inv.ID,
			Title:  idx[i].Title,
			Detail: idx[i].Detail,
			Muted:  inv.Status != domain.InvitationPending,
		}
		row.Badge, row.BadgeColor = statusGlyph(inv.Status)
		if scout {
			key := domain.InvitationSlot{TryoutID: inv.TryoutID, PlayerID: inv.PlayerID}.Key()
			row.ID = domain.ID(key)
			row.Detail = joinDetail(inv.PlayerName, idx[i].Detail)
			row.Busy = m.svc.Scouting.SentStore().Pending(key)
		} else {
			row.Busy = m.svc.Player.Received().Pending(inv.ID)
		}
		rows[i] = row
	}
	return rows
}

func statusGlyph(s domain.InvitationStatus) (string, *lipgloss.Color) {
	switch s {
	case domain.InvitationAccepted:
		return styles.AcceptedChar, &styles.PitchGreen
	case domain.InvitationDeclined:
		return styles.DeclinedChar, &styles.Red
	default:
		return styles.PendingChar, &styles.Gold
	}
}

func (m Model) notificationRows() []components.Row {
	idx := search.Notifications(m.notifications).Entries()
	rows := make([]components.Row, len(m.notifications))
	for i, n := range m.notifications {
		row := components.Row{
			ID:     n.ID,
			Title:  idx[i].Title,
			Detail: shortDate(n.CreatedAt),
			Muted:  n.IsRead,
		}
		if !n.IsRead {
			row.Badge = styles.PendingChar
			row.BadgeColor = &styles.PitchGreen
		}
		rows[i] = row
	}
	return rows
}

func (m Model) userRows() []components.Row {
	rows := make([]components.Row, len(m.users))
	for i, u := range m.users {
		row := components.Row{
			ID:     u.ID,
			Title:  u.Name,
			Detail: joinDetail(u.Email, string(u.Role)),
			Badge:  string(u.Status),
			Muted:  u.Status != "" && u.Status != domain.UserActive,
		}
		if u.Status == domain.UserSuspended {
			row.BadgeColor = &styles.Red
		}
		rows[i] = row
	}
	return rows
}

// === Selection ===

func (m Model) selectedID(tab Tab) (domain.ID, bool) {
	col := m.Columns[tab]
	if col == nil || tab != m.ActiveTab() {
		return "", false
	}
	row, ok := col.SelectedRow()
	return row.ID, ok
}

func (m Model) selectedPost() (post, bool) {
	id, ok := m.selectedID(TabFeed)
	if !ok {
		return post{}, false
	}
	for _, p := range m.posts {
		if p.Video.ID == id {
			return p, true
		}
	}
	return post{}, false
}

func (m Model) selectedPlayer() (domain.PlayerProfile, bool) {
	id, ok := m.selectedID(TabShortlist)
	if !ok {
		return domain.PlayerProfile{}, false
	}
	for _, p := range m.shortlistPlayers() {
		if p.ID == id {
			return p, true
		}
	}
	return domain.PlayerProfile{}, false
}

func (m Model) selectedInvitation() (domain.Invitation, bool) {
	id, ok := m.selectedID(TabInvitations)
	if !ok {
		return domain.Invitation{}, false
	}
	scout := m.currentUser().Is(domain.RoleScout)
	for _, inv := range m.invitationList() {
		if scout {
			if domain.ID(domain.InvitationSlot{TryoutID: inv.TryoutID, PlayerID: inv.PlayerID}.Key()) == id {
				return inv, true
			}
		} else if inv.ID == id {
			return inv, true
		}
	}
	return domain.Invitation{}, false
}

func (m Model) selectedNotification() (domain.Notification, bool) {
	id, ok := m.selectedID(TabNotifications)
	if !ok {
		return domain.Notification{}, false
	}
	for _, n := range m.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Notification{}, false
}

func (m Model) selectedUser() (domain.User, bool) {
	id, ok := m.selectedID(TabAdmin)
	if !ok {
		return domain.User{}, false
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// playerRating prefers a rating derived from stats over the stored one
func playerRating(p domain.PlayerProfile) float64 {
	return rating.ForProfile(p)
}

func joinDetail(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " · "
		}
		out += p
	}
	return out
}

// shortDate trims an RFC 3339 timestamp to its date
func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
