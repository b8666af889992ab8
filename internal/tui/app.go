package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pharaohs/pitchside/internal/adapter/gateway"
	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/pharaohs/pitchside/internal/notice"
	"github.com/pharaohs/pitchside/internal/optimistic"
	"github.com/pharaohs/pitchside/internal/search"
	"github.com/pharaohs/pitchside/internal/service"
	"github.com/pharaohs/pitchside/internal/session"
	"github.com/pharaohs/pitchside/internal/tui/components"
	"github.com/pharaohs/pitchside/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateLogin
	StateHelp
	StateConfirm
)

// Tab is one top-level view
type Tab int

const (
	TabNone Tab = iota
	TabFeed
	TabShortlist
	TabInvitations
	TabNotifications
	TabAdmin
)

func (t Tab) String() string {
	switch t {
	case TabFeed:
		return "Feed"
	case TabShortlist:
		return "Shortlist"
	case TabInvitations:
		return "Invitations"
	case TabNotifications:
		return "Notifications"
	case TabAdmin:
		return "Admin"
	default:
		return ""
	}
}

// tabsFor lists the tabs a role can use, in display order
func tabsFor(role domain.Role) []Tab {
	switch role {
	case domain.RoleScout:
		return []Tab{TabFeed, TabShortlist, TabInvitations, TabNotifications}
	case domain.RoleAdmin:
		return []Tab{TabFeed, TabAdmin, TabNotifications}
	default:
		return []Tab{TabFeed, TabInvitations, TabNotifications}
	}
}

// promptKind says what the input modal is collecting
type promptKind int

const (
	promptNone promptKind = iota
	promptLoginEmail
	promptLoginPassword
	promptComment
	promptUploadPath
	promptUploadDescription
	promptClub
	promptSearch
	promptInviteTryout
)

// confirmation is a pending yes/no question
type confirmation struct {
	question string
	onYes    tea.Cmd
}

// Layout proportions
const (
	ListColumnPercent = 55
	MinColumnWidth    = 20

	// tab bar + footer
	ChromeHeight = 2

	statusTimeout = 4 * time.Second
)

// Services bundles what the TUI drives
type Services struct {
	Auth          *service.AuthService
	Session       *session.Manager
	Feed          *service.FeedService
	Scouting      *service.ScoutingService
	Player        *service.PlayerService
	Notifications *service.NotificationService
	Admin         *service.AdminService
	Upload        *service.UploadService
	Busy          *gateway.Busy
	Notices       *notice.Center
}

// Options tune the TUI
type Options struct {
	PageSize int
	Logger   *slog.Logger
}

// post is one feed row: a player's upload
type post struct {
	Player domain.PlayerProfile
	Video  domain.Video
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	ctx    context.Context
	svc    Services
	opts   Options
	logger *slog.Logger
	bridge *Bridge
	unsubs []func()

	// UI components
	Tabs       []Tab
	Active     int
	Columns    map[Tab]*components.ListColumn
	Inspector  components.Inspector
	InputModal components.InputModal
	Spinner    spinner.Model
	Help       help.Model

	prompt  promptKind
	answers map[promptKind]string
	confirm *confirmation

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusLevel notice.Level
	statusSeq   int
	Loading     bool
	Unread      int

	// Data
	feedQuery     domain.FeedQuery
	feedPage      *domain.FeedPage
	feedStale     bool
	posts         []post
	filterOptions *domain.FilterOptions
	searchQuery   string
	searchResults []domain.PlayerProfile
	tryouts       []domain.Tryout
	inviteTarget  domain.PlayerProfile
	notifications []domain.Notification
	notifPage     domain.PageInfo
	users         []domain.User
}

// NewModel creates the application model. ctx is cancelled when the
// program exits and bounds every request the TUI starts.
func NewModel(ctx context.Context, svc Services, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		State:      StateBrowsing,
		ctx:        ctx,
		svc:        svc,
		opts:       opts,
		logger:     logger,
		bridge:     NewBridge(),
		Columns:    make(map[Tab]*components.ListColumn),
		Inspector:  components.NewInspector(),
		InputModal: components.NewInputModal(),
		Spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle)),
		Help:       help.New(),
		answers:    make(map[promptKind]string),
		feedQuery:  domain.FeedQuery{Page: 1, Limit: opts.PageSize},
	}
	m.subscribe()

	if user := m.currentUser(); user != nil {
		m.setTabs(user.Role)
	} else {
		m.showLogin()
	}
	return m
}

// subscribe forwards service callbacks through the bridge
func (m *Model) subscribe() {
	b := m.bridge
	if m.svc.Busy != nil {
		m.unsubs = append(m.unsubs, m.svc.Busy.Subscribe(func(visible bool) { b.Send(BusyMsg{Visible: visible}) }))
	}
	if m.svc.Notices != nil {
		m.unsubs = append(m.unsubs, m.svc.Notices.Subscribe(func(n notice.Notice) { b.Send(NoticeMsg{Notice: n}) }))
	}
	if m.svc.Notifications != nil {
		m.unsubs = append(m.unsubs, m.svc.Notifications.Subscribe(func(n int) { b.Send(UnreadMsg{Count: n}) }))
	}
	if m.svc.Session != nil {
		m.unsubs = append(m.unsubs, m.svc.Session.Subscribe(func(u *domain.User) {
			if u == nil {
				b.Send(LoggedOutMsg{})
			}
		}))
	}
	changed := func() { b.Send(StoreChangedMsg{}) }
	if m.svc.Feed != nil {
		m.unsubs = append(m.unsubs, m.svc.Feed.Likes().Subscribe(func(_ optimistic.Change[domain.ID, domain.LikeState]) { changed() }))
	}
	if m.svc.Scouting != nil {
		m.unsubs = append(m.unsubs,
			m.svc.Scouting.Shortlist().Subscribe(func(_ optimistic.Change[domain.ID, domain.PlayerProfile]) { changed() }),
			m.svc.Scouting.SentStore().Subscribe(func(_ optimistic.Change[string, domain.Invitation]) { changed() }),
		)
	}
	if m.svc.Player != nil {
		m.unsubs = append(m.unsubs, m.svc.Player.Received().Subscribe(func(_ optimistic.Change[domain.ID, domain.Invitation]) { changed() }))
	}
}

// Close drops every service subscription
func (m Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.bridge.Listen(), m.Spinner.Tick}
	if m.State != StateLogin {
		cmds = append(cmds, m.loadAll())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case bridgedMsg:
		var next tea.Model = m
		cmds := make([]tea.Cmd, 0, len(msg.msgs)+1)
		for _, inner := range msg.msgs {
			var cmd tea.Cmd
			next, cmd = next.Update(inner)
			cmds = append(cmds, cmd)
		}
		return next, tea.Batch(append(cmds, m.bridge.Listen())...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case BusyMsg:
		m.Loading = msg.Visible
		if m.svc.Busy != nil {
			m.Loading = m.svc.Busy.Active()
		}
		return m, nil

	case NoticeMsg:
		cmd := m.setStatus(msg.Notice.Message, msg.Notice.Level)
		return m, cmd

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
		}
		return m, nil

	case UnreadMsg:
		m.Unread = msg.Count
		if m.svc.Notifications != nil {
			m.Unread = m.svc.Notifications.Unread()
		}
		return m, nil

	case LoggedInMsg:
		m.State = StateBrowsing
		m.InputModal.Hide()
		m.prompt = promptNone
		m.answers = make(map[promptKind]string)
		m.setTabs(msg.User.Role)
		m.updateLayout()
		cmd := m.loadAll()
		return m, cmd

	case LoggedOutMsg:
		if m.State == StateLogin {
			return m, nil
		}
		m.resetData()
		m.showLogin()
		return m, nil

	case ErrMsg:
		m.logger.Debug("command failed", "context", msg.Context, "error", msg.Err)
		if col := m.Columns[msg.Tab]; col != nil {
			col.SetLoading(false)
		}
		if msg.Context == "login" {
			m.showLogin()
			var verr *service.ValidationError
			if errors.As(msg.Err, &verr) {
				cmd := m.setStatus(verr.Error(), notice.LevelWarning)
				return m, cmd
			}
		}
		return m, nil

	case FeedLoadedMsg:
		m.feedQuery = msg.Query
		m.feedPage = msg.Page
		m.feedStale = msg.Stale
		m.posts = flattenFeed(msg.Page)
		m.refreshRows(TabFeed)
		return m, LoadFeedDetailsCmd(m.ctx, m.svc.Feed, service.VideoIDs(msg.Page))

	case FeedDetailsMsg, StoreChangedMsg:
		m.refreshAllRows()
		return m, nil

	case FilterOptionsMsg:
		m.filterOptions = msg.Options
		return m, nil

	case ShortlistLoadedMsg:
		m.refreshRows(TabShortlist)
		return m, nil

	case SearchResultsMsg:
		m.searchQuery = msg.Query
		m.searchResults = nil
		if msg.Result != nil {
			m.searchResults = msg.Result.Players
		}
		m.refreshRows(TabShortlist)
		return m, nil

	case TryoutsLoadedMsg:
		m.tryouts = msg.Tryouts
		if len(m.tryouts) == 0 {
			cmd := m.setStatus("Create a tryout first (pitchside tryouts create)", notice.LevelWarning)
			return m, cmd
		}
		m.openPrompt(promptInviteTryout, "Invite "+m.inviteTarget.Name+" to tryout", "tryout name")
		m.InputModal.SetSuggestions(tryoutNames(m.tryouts))
		return m, nil

	case InvitationsLoadedMsg:
		m.refreshRows(TabInvitations)
		return m, nil

	case NotificationsLoadedMsg:
		if msg.Page != nil {
			m.notifications = msg.Page.Notifications
			m.notifPage = msg.Page.Pagination
		}
		m.refreshRows(TabNotifications)
		return m, nil

	case UsersLoadedMsg:
		m.users = msg.Users
		m.refreshRows(TabAdmin)
		return m, nil

	case ActionDoneMsg:
		var cmds []tea.Cmd
		if msg.Status != "" {
			cmds = append(cmds, m.setStatus(msg.Status, notice.LevelInfo))
		}
		if msg.Reload != TabNone {
			cmds = append(cmds, m.loadTab(msg.Reload))
		}
		m.refreshAllRows()
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// loadAll fetches every list the current role can see
func (m *Model) loadAll() tea.Cmd {
	var cmds []tea.Cmd
	for _, tab := range m.Tabs {
		cmds = append(cmds, m.loadTab(tab))
	}
	if user := m.currentUser(); user != nil {
		switch user.Role {
		case domain.RoleScout:
			cmds = append(cmds, LoadFilterOptionsCmd(m.ctx, m.svc.Scouting.FilterOptions))
		case domain.RolePlayer:
			cmds = append(cmds, LoadFilterOptionsCmd(m.ctx, m.svc.Player.FilterOptions))
		}
	}
	return tea.Batch(cmds...)
}

// loadTab fetches the list behind tab
func (m *Model) loadTab(tab Tab) tea.Cmd {
	if col := m.Columns[tab]; col != nil && col.ItemCount() == 0 {
		col.SetLoading(true)
	}
	user := m.currentUser()
	switch tab {
	case TabFeed:
		return LoadFeedCmd(m.ctx, m.svc.Feed, m.feedQuery)
	case TabShortlist:
		return LoadShortlistCmd(m.ctx, m.svc.Scouting)
	case TabInvitations:
		if user.Is(domain.RoleScout) {
			return LoadSentInvitationsCmd(m.ctx, m.svc.Scouting)
		}
		return LoadReceivedInvitationsCmd(m.ctx, m.svc.Player)
	case TabNotifications:
		page := max(m.notifPage.Page, 1)
		return LoadNotificationsCmd(m.ctx, m.svc.Notifications, page, m.opts.PageSize)
	case TabAdmin:
		return LoadUsersCmd(m.ctx, m.svc.Admin)
	}
	return nil
}

func (m *Model) setTabs(role domain.Role) {
	m.Tabs = tabsFor(role)
	m.Active = 0
	m.Columns = make(map[Tab]*components.ListColumn, len(m.Tabs))
	for _, tab := range m.Tabs {
		col := components.NewListColumn(searchKind(tab), tab.String())
		col.SetEmptyMessage(emptyMessage(tab, role))
		m.Columns[tab] = col
	}
	m.focusActive()
}

func (m *Model) showLogin() {
	m.State = StateLogin
	m.answers = make(map[promptKind]string)
	m.openPrompt(promptLoginEmail, "Log in · email", "you@example.com")
}

func (m *Model) resetData() {
	m.Tabs = nil
	m.Columns = make(map[Tab]*components.ListColumn)
	m.feedQuery = domain.FeedQuery{Page: 1, Limit: m.opts.PageSize}
	m.feedPage = nil
	m.feedStale = false
	m.posts = nil
	m.filterOptions = nil
	m.searchQuery = ""
	m.searchResults = nil
	m.tryouts = nil
	m.notifications = nil
	m.notifPage = domain.PageInfo{}
	m.users = nil
	m.Unread = 0
	m.confirm = nil
}

func (m *Model) openPrompt(kind promptKind, title, placeholder string) {
	m.prompt = kind
	if kind == promptLoginPassword {
		m.InputModal.ShowSecret(title)
		return
	}
	m.InputModal.Show(title, placeholder)
}

// setStatus shows text in the footer until it times out
func (m *Model) setStatus(text string, level notice.Level) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusLevel = level
	return ClearStatusCmd(statusTimeout, m.statusSeq)
}

// ActiveTab returns the tab in focus
func (m Model) ActiveTab() Tab {
	if m.Active < 0 || m.Active >= len(m.Tabs) {
		return TabNone
	}
	return m.Tabs[m.Active]
}

func (m Model) activeColumn() *components.ListColumn {
	return m.Columns[m.ActiveTab()]
}

func (m *Model) focusActive() {
	for tab, col := range m.Columns {
		col.SetFocused(tab == m.ActiveTab())
	}
	m.updateInspector()
}

func (m Model) currentUser() *domain.User {
	if m.svc.Auth == nil {
		return nil
	}
	return m.svc.Auth.CurrentUser()
}

func searchKind(tab Tab) search.Kind {
	switch tab {
	case TabInvitations:
		return search.KindInvitation
	case TabNotifications:
		return search.KindNotification
	default:
		return search.KindPlayer
	}
}

func emptyMessage(tab Tab, role domain.Role) string {
	switch tab {
	case TabFeed:
		return "No posts yet"
	case TabShortlist:
		return "Shortlist is empty · S to search players"
	case TabInvitations:
		if role == domain.RoleScout {
			return "No invitations sent"
		}
		return "No invitations yet"
	case TabNotifications:
		return "You're all caught up"
	case TabAdmin:
		return "No users"
	}
	return "No items"
}
