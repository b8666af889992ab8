package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/rating"
	"github.com/pharaohs/pitchside/internal/tui/components"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

const ratingBarWidth = 20

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.State {
	case StateHelp:
		body = m.renderHelp()
	case StateLogin:
		body = m.renderLogin()
	default:
		body = m.renderBrowser()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, m.renderTabBar(), body, m.renderFooter())

	switch {
	case m.State == StateConfirm && m.confirm != nil:
		return m.overlay(m.renderConfirm())
	case m.InputModal.IsVisible() && m.State != StateLogin:
		return m.overlay(m.InputModal.View())
	}
	return out
}

// overlay centers a modal on the screen
func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(styles.SlateDark))
}

func (m Model) renderBrowser() string {
	col := m.activeColumn()
	if col == nil {
		return ""
	}
	layout := calculateLayout(m.Width)
	if layout.inspectorWidth == 0 {
		return col.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, col.View(), m.Inspector.View())
}

func (m Model) renderLogin() string {
	height := max(m.Height-ChromeHeight, 3)
	content := styles.DimStyle.Render("Logging in...")
	if m.InputModal.IsVisible() {
		content = m.InputModal.View()
	}
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHelp() string {
	height := max(m.Height-ChromeHeight, 3)
	m.Help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keyboard shortcuts"),
		m.Help.View(Keys),
		"",
		styles.DimStyle.Render("j/k move · g/G top/bottom · esc closes"),
	)
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(content))
}

func (m Model) renderConfirm() string {
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.confirm.question),
		styles.HelpKeyStyle.Render("y")+styles.HelpDescStyle.Render(" confirm  ")+
			styles.HelpKeyStyle.Render("n")+styles.HelpDescStyle.Render(" cancel"),
	))
}

func (m Model) renderTabBar() string {
	var parts []string
	parts = append(parts, styles.AccentStyle.Bold(true).Render("⚽ pitchside"))
	for i, tab := range m.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab)
		if tab == TabNotifications && m.Unread > 0 {
			label += " " + styles.BadgeStyle.Render(fmt.Sprint(m.Unread))
		}
		if i == m.Active {
			parts = append(parts, styles.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, styles.TabStyle.Render(label))
		}
	}
	bar := strings.Join(parts, " ")

	if user := m.currentUser(); user != nil {
		who := styles.DimStyle.Render(user.Name + " (" + string(user.Role) + ")")
		gap := m.Width - lipgloss.Width(bar) - lipgloss.Width(who)
		if gap > 0 {
			bar += strings.Repeat(" ", gap) + who
		}
	}
	return bar
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "":
		left = statusStyle(m.StatusLevel).Render(m.StatusMsg)
	case m.Loading:
		left = m.Spinner.View() + styles.DimStyle.Render(" Loading...")
	default:
		left = m.Help.ShortHelpView(Keys.ShortHelp())
	}
	if m.Loading && m.StatusMsg != "" {
		left = m.Spinner.View() + " " + left
	}
	return lipgloss.NewStyle().MaxWidth(max(m.Width, 1)).Render(left)
}

func statusStyle(level notice.Level) lipgloss.Style {
	switch level {
	case notice.LevelError:
		return styles.ErrorStyle
	case notice.LevelWarning:
		return styles.WarningStyle
	case notice.LevelSuccess:
		return styles.SuccessStyle
	default:
		return styles.SubtitleStyle
	}
}

// === Inspector ===

// updateInspector shows details for the selected row of the active tab
func (m *Model) updateInspector() {
	var (
		title   = "Details"
		content components.InspectorContent
	)

	switch m.ActiveTab() {
	case TabFeed:
		if p, ok := m.selectedPost(); ok {
			title, content = p.Player.Name, m.postDetails(p)
		}
	case TabShortlist:
		if p, ok := m.selectedPlayer(); ok {
			title, content = p.Name, m.playerDetails(p)
		}
	case TabInvitations:
		if inv, ok := m.selectedInvitation(); ok {
			title, content = inv.TryoutName, m.invitationDetails(inv)
		}
	case TabNotifications:
		if n, ok := m.selectedNotification(); ok {
			title, content = "Notification", notificationDetails(n)
		}
	case TabAdmin:
		if u, ok := m.selectedUser(); ok {
			title, content = u.Name, userDetails(u)
		}
	}
	if w := calculateLayout(m.Width).inspectorWidth; w > 0 {
		content.Body = components.WordWrap(content.Body, max(w-4, 10))
	}
	m.Inspector.SetContent(title, content)
}

func (m Model) postDetails(p post) components.InspectorContent {
	var header []string
	header = append(header, styles.SubtitleStyle.Render(joinDetail(p.Player.Club, p.Player.Position)))
	header = append(header, ratingLine(playerRating(p.Player)))

	var body []string
	if p.Video.Description != "" {
		body = append(body, p.Video.Description, "")
	}
	body = append(body, styles.DimStyle.Render(string(p.Video.Type)+" · "+shortDate(p.Video.CreatedAt)))
	if m.svc.Feed.MediaFailed(p.Video.ID) {
		body = append(body, styles.WarningStyle.Render(styles.BrokenChar+" media unavailable"))
	}
	body = append(body, styles.DimStyle.Render(p.Video.URL), "")

	if !m.currentUser().Is(domain.RoleAdmin) {
		st := m.svc.Feed.LikeState(p.Video.ID)
		likes := fmt.Sprintf("%s %d likes", styles.UnlikedChar, st.Count)
		if st.LikedByCurrentUser {
			likes = styles.ErrorStyle.Render(styles.LikedChar) + fmt.Sprintf(" %d likes · you like this", st.Count)
		}
		body = append(body, likes, "")
	}

	comments := m.svc.Feed.Comments(p.Video.ID)
	body = append(body, styles.TitleStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	for _, c := range comments {
		name := c.CommenterName
		if name == "" {
			name = "someone"
		}
		body = append(body, styles.AccentStyle.Render(name)+" "+styles.DimStyle.Render(shortDate(c.CreatedAt)), "  "+c.Content)
	}

	return components.InspectorContent{
		Header: strings.Join(header, "\n"),
		Body:   strings.Join(body, "\n"),
		Footer: styles.DimStyle.Render("enter open · space like · c comment"),
	}
}

func (m Model) playerDetails(p domain.PlayerProfile) components.InspectorContent {
	header := []string{
		styles.SubtitleStyle.Render(joinDetail(p.Club, p.Position, ageText(p.Age))),
		ratingLine(playerRating(p)),
	}

	var body []string
	if p.Bio != "" {
		body = append(body, p.Bio, "")
	}
	if stats := p.PerformanceStats(); stats != nil {
		body = append(body,
			styles.TitleStyle.Render("Stats"),
			fmt.Sprintf("Matches  %d", stats.MatchesPlayed),
			fmt.Sprintf("Goals    %d", stats.Goals),
			fmt.Sprintf("Assists  %d", stats.Assists),
			fmt.Sprintf("Cards    %d yellow, %d red", stats.YellowCards, stats.RedCards),
			"",
		)
	}
	if n := max(p.VideoCount, len(p.Videos)); n > 0 {
		body = append(body, styles.DimStyle.Render(fmt.Sprintf("%d posts", n)))
	}

	footer := "s shortlist · i invite"
	if m.svc.Scouting.IsShortlisted(p.ID) {
		footer = "★ shortlisted · s remove · i invite"
	}
	return components.InspectorContent{
		Header: strings.Join(header, "\n"),
		Body:   strings.Join(body, "\n"),
		Footer: styles.DimStyle.Render(footer),
	}
}

func (m Model) invitationDetails(inv domain.Invitation) components.InspectorContent {
	glyph, color := statusGlyph(inv.Status)
	status := lipgloss.NewStyle().Foreground(*color).Render(glyph + " " + string(inv.Status))

	var body []string
	if inv.PlayerName != "" && m.currentUser().Is(domain.RoleScout) {
		body = append(body, "Player   "+inv.PlayerName)
	}
	if inv.ScoutName != "" {
		body = append(body, "Scout    "+joinDetail(inv.ScoutName, inv.ScoutEmail))
	}
	if inv.Location != "" {
		body = append(body, "Where    "+inv.Location)
	}
	if inv.Date != "" {
		body = append(body, "When     "+shortDate(inv.Date))
	}
	if inv.Message != "" {
		body = append(body, "", inv.Message)
	}

	footer := "a accept · d decline"
	if m.currentUser().Is(domain.RoleScout) {
		footer = "x cancel invitation"
	}
	return components.InspectorContent{
		Header: status,
		Body:   strings.Join(body, "\n"),
		Footer: styles.DimStyle.Render(footer),
	}
}

func notificationDetails(n domain.Notification) components.InspectorContent {
	state := styles.AccentStyle.Render("unread")
	if n.IsRead {
		state = styles.DimStyle.Render("read")
	}
	return components.InspectorContent{
		Header: state + styles.DimStyle.Render(" · "+shortDate(n.CreatedAt)),
		Body:   n.Message,
		Footer: styles.DimStyle.Render("m mark read · M all · x delete"),
	}
}

func userDetails(u domain.User) components.InspectorContent {
	body := []string{
		"Email    " + u.Email,
		"Role     " + string(u.Role),
		"Status   " + string(u.Status),
	}
	if u.CreatedAt != "" {
		body = append(body, "Joined   "+shortDate(u.CreatedAt))
	}
	return components.InspectorContent{
		Body:   strings.Join(body, "\n"),
		Footer: styles.DimStyle.Render("t status · p reset password · x delete"),
	}
}

// ratingLine renders "★ 3.8 good ████░░"
func ratingLine(r float64) string {
	tier := rating.Classify(r)
	style := styles.SuccessStyle
	switch tier {
	case rating.TierPoor:
		style = styles.ErrorStyle
	case rating.TierMedium:
		style = styles.WarningStyle
	}
	return style.Render("★ "+rating.Format(r)+" "+tier.String()) + " " +
		styles.RenderProgressBar(rating.Percentage(r), ratingBarWidth)
}

func ageText(age int) string {
	if age <= 0 {
		return ""
	}
	return fmt.Sprintf("%d yrs", age)
}
