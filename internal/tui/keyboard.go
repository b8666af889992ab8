package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/search"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirm:
		switch {
		case key.Matches(msg, Keys.Confirm):
			cmd := m.confirm.onYes
			m.confirm = nil
			m.State = StateBrowsing
			return m, cmd
		case key.Matches(msg, Keys.Deny):
			m.confirm = nil
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}
	if m.State == StateLogin {
		// Waiting on a login request
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	col := m.activeColumn()

	// Filter typing swallows everything
	if col != nil && col.IsFilterTyping() {
		return m.updateColumn(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if col != nil && col.IsFiltering() {
			col.ClearFilter()
			m.updateInspector()
			return m, nil
		}
		if m.ActiveTab() == TabShortlist && m.searchQuery != "" {
			m.searchQuery = ""
			m.searchResults = nil
			m.refreshRows(TabShortlist)
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		if col == nil {
			return m, nil
		}
		if col.IsFiltering() {
			return m.updateColumn(msg)
		}
		col.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		cmd := m.loadTab(m.ActiveTab())
		return m, cmd

	case key.Matches(msg, Keys.NextTab):
		m.switchTab(m.Active + 1)
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.switchTab(m.Active - 1)
		return m, nil

	case key.Matches(msg, Keys.Tab1, Keys.Tab2, Keys.Tab3, Keys.Tab4):
		if n := int(msg.String()[0] - '1'); n < len(m.Tabs) {
			m.switchTab(n)
		}
		return m, nil

	case key.Matches(msg, Keys.DetailDn):
		m.Inspector.ScrollDown()
		return m, nil

	case key.Matches(msg, Keys.DetailUp):
		m.Inspector.ScrollUp()
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.askConfirm("Log out?", LogoutCmd(m.svc.Auth))
		return m, nil
	}

	var (
		handled bool
		cmd     tea.Cmd
	)
	switch m.ActiveTab() {
	case TabFeed:
		handled, cmd = m.handleFeedKey(msg)
	case TabShortlist:
		handled, cmd = m.handleShortlistKey(msg)
	case TabInvitations:
		handled, cmd = m.handleInvitationKey(msg)
	case TabNotifications:
		handled, cmd = m.handleNotificationKey(msg)
	case TabAdmin:
		handled, cmd = m.handleAdminKey(msg)
	}
	if handled {
		return m, cmd
	}

	return m.updateColumn(msg)
}

// routeToModal sends keys to the input modal when it is open
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if !m.InputModal.IsVisible() {
		return false, m, nil
	}

	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.InputModal, cmd, submitted = m.InputModal.Update(msg)

	if !m.InputModal.IsVisible() {
		// Cancelled
		m.prompt = promptNone
		if m.State == StateLogin {
			return true, m, tea.Quit
		}
		return true, m, cmd
	}
	if submitted {
		cmd := m.submitPrompt(m.InputModal.Value())
		return true, m, cmd
	}
	return true, m, cmd
}

// submitPrompt acts on the value entered in the input modal
func (m *Model) submitPrompt(value string) tea.Cmd {
	kind := m.prompt
	value = strings.TrimSpace(value)
	m.InputModal.Hide()
	m.prompt = promptNone

	switch kind {
	case promptLoginEmail:
		m.answers[promptLoginEmail] = value
		m.openPrompt(promptLoginPassword, "Log in · password for "+value, "")
		return nil

	case promptLoginPassword:
		return LoginCmd(m.ctx, m.svc.Auth, m.answers[promptLoginEmail], value)

	case promptComment:
		p, ok := m.selectedPost()
		if !ok {
			return nil
		}
		return AddCommentCmd(m.ctx, m.svc.Feed, p.Video.ID, value)

	case promptUploadPath:
		if value == "" {
			return nil
		}
		m.answers[promptUploadPath] = value
		m.openPrompt(promptUploadDescription, "Describe your post", "optional")
		return nil

	case promptUploadDescription:
		path := m.answers[promptUploadPath]
		return tea.Batch(
			m.setStatus("Uploading "+path+"...", notice.LevelInfo),
			UploadCmd(m.ctx, m.svc.Upload, path, value),
		)

	case promptClub:
		m.feedQuery.Club = value
		m.feedQuery.Page = 1
		return m.loadTab(TabFeed)

	case promptSearch:
		if m.ActiveTab() == TabFeed {
			m.feedQuery.Search = value
			m.feedQuery.Page = 1
			return m.loadTab(TabFeed)
		}
		if value == "" {
			m.searchQuery = ""
			m.searchResults = nil
			m.refreshRows(TabShortlist)
			return nil
		}
		return SearchPlayersCmd(m.ctx, m.svc.Scouting, value, m.opts.PageSize)

	case promptInviteTryout:
		slot := domain.InvitationSlot{PlayerID: m.inviteTarget.ID}
		if t, ok := matchTryout(m.tryouts, value); ok {
			slot.TryoutID = t.ID
		}
		return SendInvitationCmd(m.ctx, m.svc.Scouting, slot)
	}
	return nil
}

func (m *Model) handleFeedKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	user := m.currentUser()

	switch {
	case key.Matches(msg, Keys.Open):
		if p, ok := m.selectedPost(); ok {
			return true, OpenMediaCmd(m.svc.Feed, p.Video)
		}
		return true, nil

	case key.Matches(msg, Keys.Like):
		if p, ok := m.selectedPost(); ok {
			return true, ToggleLikeCmd(m.ctx, m.svc.Feed, p.Video.ID)
		}
		return true, nil

	case key.Matches(msg, Keys.Comment):
		if p, ok := m.selectedPost(); ok {
			m.openPrompt(promptComment, "Comment on "+p.Player.Name+"'s post", "say something nice")
		}
		return true, nil

	case key.Matches(msg, Keys.DelComment):
		p, ok := m.selectedPost()
		if !ok {
			return true, nil
		}
		c, ok := m.lastDeletableComment(p.Video.ID)
		if !ok {
			return true, m.setStatus("No comment you can delete on this post", notice.LevelWarning)
		}
		m.askConfirm(fmt.Sprintf("Delete comment %q?", styles.Truncate(c.Content, 40)),
			DeleteCommentCmd(m.ctx, m.svc, c, user.Is(domain.RoleAdmin)))
		return true, nil

	case key.Matches(msg, Keys.Delete):
		p, ok := m.selectedPost()
		if !ok {
			return true, nil
		}
		m.askConfirm("Delete this post by "+p.Player.Name+"?",
			DeletePostCmd(m.ctx, m.svc, p.Video.ID, user.Is(domain.RoleAdmin)))
		return true, nil

	case key.Matches(msg, Keys.Upload):
		if !user.Is(domain.RolePlayer) {
			return true, m.setStatus("Only players can upload media.", notice.LevelWarning)
		}
		m.openPrompt(promptUploadPath, "Upload media", "/path/to/clip.mp4")
		return true, nil

	case key.Matches(msg, Keys.Club):
		m.openPrompt(promptClub, "Filter feed by club", "empty to show all")
		m.InputModal.SetSuggestions(m.clubOptions())
		return true, nil

	case key.Matches(msg, Keys.Search):
		m.openPrompt(promptSearch, "Search posts by player", "empty to show all")
		m.InputModal.SetSuggestions(playerNames(m.posts))
		return true, nil

	case key.Matches(msg, Keys.NextPage):
		if m.feedPage != nil && m.feedQuery.Page < m.feedPage.Pagination.TotalPages {
			m.feedQuery.Page++
			return true, m.loadTab(TabFeed)
		}
		return true, nil

	case key.Matches(msg, Keys.PrevPage):
		if m.feedQuery.Page > 1 {
			m.feedQuery.Page--
			return true, m.loadTab(TabFeed)
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) handleShortlistKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		m.openPrompt(promptSearch, "Search players", "name, empty to clear")
		return true, nil

	case key.Matches(msg, Keys.Shortlist):
		if p, ok := m.selectedPlayer(); ok {
			return true, ToggleShortlistCmd(m.ctx, m.svc.Scouting, p)
		}
		return true, nil

	case key.Matches(msg, Keys.Invite):
		p, ok := m.selectedPlayer()
		if !ok {
			return true, nil
		}
		m.inviteTarget = p
		return true, LoadTryoutsCmd(m.ctx, m.svc.Scouting)
	}
	return false, nil
}

func (m *Model) handleInvitationKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	inv, ok := m.selectedInvitation()

	if m.currentUser().Is(domain.RoleScout) {
		if key.Matches(msg, Keys.Delete) {
			if !ok {
				return true, nil
			}
			slot := domain.InvitationSlot{TryoutID: inv.TryoutID, PlayerID: inv.PlayerID}
			m.askConfirm("Cancel invitation for "+inv.PlayerName+"?", CancelInvitationCmd(m.ctx, m.svc.Scouting, slot))
			return true, nil
		}
		return false, nil
	}

	switch {
	case key.Matches(msg, Keys.Accept):
		if ok {
			return true, RespondCmd(m.ctx, m.svc.Player, inv.ID, domain.InvitationAccepted)
		}
		return true, nil
	case key.Matches(msg, Keys.Decline):
		if ok {
			return true, RespondCmd(m.ctx, m.svc.Player, inv.ID, domain.InvitationDeclined)
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) handleNotificationKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	n, ok := m.selectedNotification()

	switch {
	case key.Matches(msg, Keys.MarkRead), key.Matches(msg, Keys.Open):
		if ok && !n.IsRead {
			return true, MarkReadCmd(m.ctx, m.svc.Notifications, n.ID)
		}
		return true, nil

	case key.Matches(msg, Keys.MarkAllRead):
		return true, MarkAllReadCmd(m.ctx, m.svc.Notifications)

	case key.Matches(msg, Keys.Delete):
		if ok {
			return true, DeleteNotificationCmd(m.ctx, m.svc.Notifications, n)
		}
		return true, nil

	case key.Matches(msg, Keys.NextPage):
		if m.notifPage.Page < m.notifPage.TotalPages {
			m.notifPage.Page++
			return true, m.loadTab(TabNotifications)
		}
		return true, nil

	case key.Matches(msg, Keys.PrevPage):
		if m.notifPage.Page > 1 {
			m.notifPage.Page--
			return true, m.loadTab(TabNotifications)
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) handleAdminKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	u, ok := m.selectedUser()

	switch {
	case key.Matches(msg, Keys.Status):
		if ok {
			return true, SetUserStatusCmd(m.ctx, m.svc.Admin, u.ID, nextStatus(u.Status))
		}
		return true, nil

	case key.Matches(msg, Keys.ResetPass):
		if ok {
			m.askConfirm("Reset password for "+u.Name+"?", ResetPasswordCmd(m.ctx, m.svc.Admin, u))
		}
		return true, nil

	case key.Matches(msg, Keys.Delete):
		if ok {
			m.askConfirm("Delete user "+u.Name+" ("+u.Email+")?", DeleteUserCmd(m.ctx, m.svc.Admin, u.ID))
		}
		return true, nil
	}
	return false, nil
}

// updateColumn forwards a key to the active list
func (m Model) updateColumn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col := m.activeColumn()
	if col == nil {
		return m, nil
	}
	_, cmd := col.Update(msg)
	m.updateInspector()
	return m, cmd
}

func (m *Model) switchTab(i int) {
	if len(m.Tabs) == 0 {
		return
	}
	m.Active = (i + len(m.Tabs)) % len(m.Tabs)
	m.focusActive()
}

func (m *Model) askConfirm(question string, onYes tea.Cmd) {
	m.confirm = &confirmation{question: question, onYes: onYes}
	m.State = StateConfirm
}

// lastDeletableComment returns the newest comment on a post the user may remove
func (m Model) lastDeletableComment(videoID domain.ID) (domain.Comment, bool) {
	comments := m.svc.Feed.Comments(videoID)
	for i := len(comments) - 1; i >= 0; i-- {
		if m.svc.Feed.CanDeleteComment(comments[i]) {
			return comments[i], true
		}
	}
	return domain.Comment{}, false
}

func (m Model) clubOptions() []string {
	if m.filterOptions != nil && len(m.filterOptions.Clubs) > 0 {
		return m.filterOptions.Clubs
	}
	seen := make(map[string]bool)
	var clubs []string
	for _, p := range m.posts {
		if c := p.Player.Club; c != "" && !seen[c] {
			seen[c] = true
			clubs = append(clubs, c)
		}
	}
	return clubs
}

// matchTryout resolves a typed tryout name, exact first then fuzzy
func matchTryout(tryouts []domain.Tryout, name string) (domain.Tryout, bool) {
	if name == "" {
		return domain.Tryout{}, false
	}
	for _, t := range tryouts {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	if s := search.Suggest(name, tryoutNames(tryouts), 1); len(s) == 1 {
		for _, t := range tryouts {
			if t.Name == s[0] {
				return t, true
			}
		}
	}
	return domain.Tryout{}, false
}

func tryoutNames(tryouts []domain.Tryout) []string {
	names := make([]string, len(tryouts))
	for i, t := range tryouts {
		names[i] = t.Name
	}
	return names
}

func playerNames(posts []post) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range posts {
		if !seen[p.Player.Name] {
			seen[p.Player.Name] = true
			names = append(names, p.Player.Name)
		}
	}
	return names
}

// nextStatus cycles active -> suspended -> inactive -> active
func nextStatus(s domain.UserStatus) domain.UserStatus {
	switch s {
	case domain.UserSuspended:
		return domain.UserInactive
	case domain.UserInactive:
		return domain.UserActive
	default:
		return domain.UserSuspended
	}
}
